package session

import "context"

// Repository persiste sesiones de navegador. Los adapters (memory, redis,
// postgres) devuelven sus propios errores; el service trata cualquier
// error de lectura como "sin sesión" (fail-safe hacia logged-out).
type Repository interface {
	Save(ctx context.Context, s Session) error
	GetByID(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
