package session

import (
	"time"

	"petnest-frontend-core/internal/ports/upstream"
)

// Session es el estado de sesión de un navegador, custodiado server-side.
// El navegador solo recibe el ID opaco en una cookie HTTP-only; el token
// upstream nunca viaja a storage del cliente.
type Session struct {
	ID string

	User  *upstream.User // nil => anónimo
	Token string

	// Generation se incrementa en cada transición de la sesión. Los fetches
	// asíncronos la llevan estampada y solo comitean si sigue vigente.
	Generation uint64

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated se deriva de User, nunca se almacena por separado.
// Así el invariante isAuthenticated == (user != nil) no puede romperse.
func (s Session) Authenticated() bool {
	return s.User != nil
}

func (s Session) IsBuyer() bool {
	return s.User != nil && s.User.Role == upstream.RoleBuyer
}

func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.Role == upstream.RoleAdmin
}

type TransitionKind string

const (
	TransitionLogin   TransitionKind = "login"
	TransitionRestore TransitionKind = "restore"
	TransitionLogout  TransitionKind = "logout"
)

// Transition es el evento que reciben los observers (p.ej. el sincronizador
// de wishlist). Session es un snapshot post-transición; en logout viene con
// el ID de la sesión que se cierra y User nil.
type Transition struct {
	Kind    TransitionKind
	Session Session
}
