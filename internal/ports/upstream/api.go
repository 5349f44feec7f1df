package upstream

import (
	"context"
	"errors"
)

// Errores normalizados que los adapters devuelven (wrapped) para que los
// services no dependan del transporte.
var (
	ErrUnauthorized = errors.New("upstream unauthorized")
	ErrNotFound     = errors.New("upstream not found")
	ErrUpstream     = errors.New("upstream error")
)

// AuthAPI cubre el ciclo de vida de sesión contra el backend.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	VerifyOTP(ctx context.Context, email, code string) (LoginResult, error)
	ResendOTP(ctx context.Context, email string) error
	Logout(ctx context.Context, token string) error
}

// WishlistAPI opera la wishlist del buyer autenticado (token upstream).
// Add/Remove devuelven la lista resultante para no hacer doble round-trip.
type WishlistAPI interface {
	Fetch(ctx context.Context, token string) ([]Pet, error)
	Add(ctx context.Context, token, petID string) ([]Pet, error)
	Remove(ctx context.Context, token, petID string) ([]Pet, error)
}

// PetsAPI expone el listado público de mascotas.
type PetsAPI interface {
	List(ctx context.Context) ([]Pet, error)
	GetByID(ctx context.Context, id string) (Pet, error)
}

// AdsAPI trae creatives elegibles y reporta telemetría.
// "Cero avisos" NO es error: devuelve slice vacío.
type AdsAPI interface {
	Eligible(ctx context.Context, placement, device string) ([]AdCreative, error)
	Impression(ctx context.Context, adID string) error
	Click(ctx context.Context, adID string) error
}

// FeedAPI es el feed mixto paginado (pets + ads), filtrado por device.
type FeedAPI interface {
	Page(ctx context.Context, page, limit int, device string) (FeedPage, error)
}

// AdminAPI modera solicitudes de publicidad (requiere token admin).
type AdminAPI interface {
	ListAdRequests(ctx context.Context, token, status string) ([]AdRequest, error)
	ApproveAd(ctx context.Context, token, id string) (AdRequest, error)
	RejectAd(ctx context.Context, token, id, reason string) (AdRequest, error)
	DeactivateAd(ctx context.Context, token, id string) (AdRequest, error)
	DeleteAd(ctx context.Context, token, id string) error
}
