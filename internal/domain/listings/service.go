package listings

import (
	"context"
	"sync"

	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

// Service es el cache de listados de mascotas: el último result set plano
// (sin cursores) y el pet enfocado en la página de detalle. CurrentPet no
// necesita pertenecer a Pets: puede venir de un deep-link.
type Service struct {
	api upstream.PetsAPI
	log logger.Logger

	mu      sync.RWMutex
	pets    []upstream.Pet
	current *upstream.Pet
	loading bool
	lastErr error
}

func NewService(api upstream.PetsAPI, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		api: api,
		log: log.With(map[string]any{"component": "listings"}),
	}
}

// State es un snapshot serializable del cache.
type State struct {
	Pets       []upstream.Pet
	CurrentPet *upstream.Pet
	Loading    bool
	Err        error
}

func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pets := make([]upstream.Pet, len(s.pets))
	copy(pets, s.pets)

	var cur *upstream.Pet
	if s.current != nil {
		c := *s.current
		cur = &c
	}

	return State{Pets: pets, CurrentPet: cur, Loading: s.loading, Err: s.lastErr}
}

// List refresca el cache desde el backend. En error, el cache previo se
// conserva y el error queda en el snapshot (la UI muestra retry).
func (s *Service) List(ctx context.Context) ([]upstream.Pet, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	pets, err := s.api.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = err
	if err != nil {
		s.log.Warn("pet listing fetch failed", map[string]any{"error": err.Error()})
		out := make([]upstream.Pet, len(s.pets))
		copy(out, s.pets)
		return out, err
	}

	s.pets = pets
	out := make([]upstream.Pet, len(pets))
	copy(out, pets)
	return out, nil
}

// Focus fija el pet de la página de detalle.
func (s *Service) Focus(ctx context.Context, petID string) (upstream.Pet, error) {
	p, err := s.api.GetByID(ctx, petID)
	if err != nil {
		return upstream.Pet{}, err
	}

	s.mu.Lock()
	s.current = &p
	s.mu.Unlock()
	return p, nil
}

// ClearCurrent se llama al navegar fuera del detalle.
func (s *Service) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
