package admin

import (
	"context"
	"errors"
	"strings"

	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

var (
	ErrInvalidStatus = errors.New("invalid status filter")
)

// Service es el passthrough de moderación de publicidad. Las decisiones
// (aprobar, rechazar) las ejecuta el backend; acá solo se valida input y
// se propaga el token admin de la sesión.
type Service struct {
	api upstream.AdminAPI
	log logger.Logger
}

func NewService(api upstream.AdminAPI, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		api: api,
		log: log.With(map[string]any{"component": "admin"}),
	}
}

func (s *Service) ListAdRequests(ctx context.Context, token, status string) ([]upstream.AdRequest, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", upstream.AdStatusPending, upstream.AdStatusApproved, upstream.AdStatusRejected, upstream.AdStatusInactive:
	default:
		return nil, ErrInvalidStatus
	}
	return s.api.ListAdRequests(ctx, token, status)
}

func (s *Service) Approve(ctx context.Context, token, id string) (upstream.AdRequest, error) {
	return s.api.ApproveAd(ctx, token, id)
}

func (s *Service) Reject(ctx context.Context, token, id, reason string) (upstream.AdRequest, error) {
	return s.api.RejectAd(ctx, token, id, reason)
}

func (s *Service) Deactivate(ctx context.Context, token, id string) (upstream.AdRequest, error) {
	return s.api.DeactivateAd(ctx, token, id)
}

func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.api.DeleteAd(ctx, token, id)
}
