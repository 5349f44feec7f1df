package feed

import (
	"context"

	"petnest-frontend-core/internal/domain/ads"
	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

// Service pasa el feed mixto (pets + ads) del backend, con el device
// derivado del ancho inyectado para que el server filtre los avisos
// inline correctamente.
type Service struct {
	api upstream.FeedAPI
	log logger.Logger
}

func NewService(api upstream.FeedAPI, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		api: api,
		log: log.With(map[string]any{"component": "feed"}),
	}
}

func (s *Service) Page(ctx context.Context, page, limit, width int) (upstream.FeedPage, error) {
	device := ads.Classify(width)
	return s.api.Page(ctx, page, limit, string(device))
}
