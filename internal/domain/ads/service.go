package ads

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service entrega creatives por (placement, device) y reporta telemetría
// con semántica una-vez-por-exposición.
type Service struct {
	api   upstream.AdsAPI
	views ViewRepository
	log   logger.Logger

	newViewID func() string
}

func NewService(api upstream.AdsAPI, views ViewRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		api:       api,
		views:     views,
		log:       log.With(map[string]any{"component": "ads"}),
		newViewID: uuid.NewString,
	}
}

// PlacementResult es lo que recibe una unidad al montarse. ViewID scopea
// la deduplicación de impresiones a este mount.
type PlacementResult struct {
	ViewID    string
	Device    Device
	Creatives []upstream.AdCreative
	Fallback  bool
}

// Eligible trae los creatives elegibles para un placement con el device
// derivado del ancho inyectado. Cero resultados no es error; el banner
// del home degrada al creative estático. Un fallo de transporte sí se
// devuelve como error: el caller decide si lo colapsa a "vacío"
// (los handlers lo hacen, la UI no distingue).
func (s *Service) Eligible(ctx context.Context, placement Placement, width int) (PlacementResult, error) {
	device := Classify(width)

	creatives, err := s.api.Eligible(ctx, string(placement), string(device))
	if err != nil {
		return PlacementResult{}, err
	}

	res := PlacementResult{
		ViewID:    s.newViewID(),
		Device:    device,
		Creatives: creatives,
	}

	if len(creatives) == 0 && placement == PlacementHomeBanner {
		res.Creatives = []upstream.AdCreative{FallbackHomeBanner()}
		res.Fallback = true
	}

	return res, nil
}

// RecordImpression cuenta a-lo-sumo-una impresión por (view, creative).
// Para el creative fallback no se reporta nada. El POST upstream es
// fire-and-forget: si falla queda logueado y el par sigue marcado
// (a-lo-sumo-una, no exactamente-una).
func (s *Service) RecordImpression(ctx context.Context, viewID, adID string) error {
	viewID = strings.TrimSpace(viewID)
	adID = strings.TrimSpace(adID)
	if viewID == "" || adID == "" {
		return ErrInvalidInput
	}
	if IsFallback(adID) {
		return nil
	}

	first, err := s.views.MarkImpression(ctx, viewID, adID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	if err := s.api.Impression(ctx, adID); err != nil {
		s.log.Warn("impression post failed", map[string]any{"ad": adID, "error": err.Error()})
	}
	return nil
}

// RecordClick es best-effort: nunca devuelve error de upstream, porque
// un click jamás debe bloquear ni demorar la navegación al RedirectURL.
func (s *Service) RecordClick(ctx context.Context, adID string) error {
	adID = strings.TrimSpace(adID)
	if adID == "" {
		return ErrInvalidInput
	}
	if IsFallback(adID) {
		return nil
	}

	if err := s.api.Click(ctx, adID); err != nil {
		s.log.Warn("click post failed", map[string]any{"ad": adID, "error": err.Error()})
	}
	return nil
}
