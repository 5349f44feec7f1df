package wishlist

import (
	"context"
	"errors"
	"time"

	"petnest-frontend-core/internal/domain/session"
	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

var (
	ErrBuyerOnly = errors.New("wishlist is buyer-only")
)

// Service mantiene la wishlist de cada sesión sincronizada con el backend
// a través de las transiciones de sesión. La propiedad que defiende:
// nunca se comitea una wishlist de un usuario distinto al vigente, sin
// importar cómo se intercalen logins/logouts con fetches lentos.
type Service struct {
	store    *Store
	api      upstream.WishlistAPI
	sessions *session.Service
	log      logger.Logger

	fetchTimeout time.Duration

	// hook de tests: se invoca al terminar cada sync asíncrono
	onSynced func(sessionID string, committed bool)
}

// NewService registra el sincronizador como observer de transiciones.
func NewService(store *Store, api upstream.WishlistAPI, sessions *session.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		store:        store,
		api:          api,
		sessions:     sessions,
		log:          log.With(map[string]any{"component": "wishlist"}),
		fetchTimeout: 15 * time.Second,
	}
	sessions.OnTransition(s.onTransition)
	return s
}

func (s *Service) Get(sessionID string) State {
	return s.store.Get(sessionID)
}

// onTransition corre de forma síncrona dentro de la transición: el clear
// es visible antes de que cualquier caller vea la sesión nueva. El fetch
// es asíncrono y va estampado con la generación de la transición.
func (s *Service) onTransition(t session.Transition) {
	switch t.Kind {
	case session.TransitionLogout:
		s.store.clear(t.Session.ID)

	case session.TransitionLogin, session.TransitionRestore:
		s.store.clear(t.Session.ID)
		if t.Session.IsBuyer() {
			go s.sync(t.Session)
		}
		// seller/admin: la wishlist no existe para esos roles, no se fetchea

	default:
		// transición desconocida: no tocar estado
	}
}

func (s *Service) sync(sess session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	items, err := s.api.Fetch(ctx, sess.Token)
	if err != nil {
		// queda vacía; la UI ofrece retry manual, acá no hay backoff
		s.log.Warn("wishlist fetch failed", map[string]any{"error": err.Error()})
		s.signalSynced(sess.ID, false)
		return
	}

	committed := s.commitIfCurrent(sess.ID, sess.Generation, items)
	s.signalSynced(sess.ID, committed)
}

// commitIfCurrent aplica el resultado solo si la generación estampada
// sigue vigente; un resultado viejo se descarta en silencio. El chequeo y
// la escritura van bajo el lock del store, así un logout/login que bumpea
// la generación y limpia no puede quedar pisado por un fetch lento.
func (s *Service) commitIfCurrent(sessionID string, gen uint64, items []upstream.Pet) bool {
	ok := s.store.setIf(sessionID, newState(items), func() bool {
		// Generación 0 significa sesión cerrada o desconocida: nunca vigente.
		cur := s.sessions.Generation(sessionID)
		return cur != 0 && cur == gen
	})
	if !ok {
		s.log.Debug("stale wishlist result discarded", map[string]any{"session": sessionID})
	}
	return ok
}

// Add agrega un pet vía backend y comitea la lista resultante (con el
// mismo guard de generación que los syncs).
func (s *Service) Add(ctx context.Context, sess session.Session, petID string) (State, error) {
	if !sess.IsBuyer() {
		return emptyState(), ErrBuyerOnly
	}

	gen := s.sessions.Generation(sess.ID)
	items, err := s.api.Add(ctx, sess.Token, petID)
	if err != nil {
		return s.store.Get(sess.ID), err
	}

	s.commitIfCurrent(sess.ID, gen, items)
	return s.store.Get(sess.ID), nil
}

func (s *Service) Remove(ctx context.Context, sess session.Session, petID string) (State, error) {
	if !sess.IsBuyer() {
		return emptyState(), ErrBuyerOnly
	}

	gen := s.sessions.Generation(sess.ID)
	items, err := s.api.Remove(ctx, sess.Token, petID)
	if err != nil {
		return s.store.Get(sess.ID), err
	}

	s.commitIfCurrent(sess.ID, gen, items)
	return s.store.Get(sess.ID), nil
}

// Refresh es el retry manual de la UI: fetch síncrono con guard.
func (s *Service) Refresh(ctx context.Context, sess session.Session) (State, error) {
	if !sess.IsBuyer() {
		return emptyState(), ErrBuyerOnly
	}

	gen := s.sessions.Generation(sess.ID)
	items, err := s.api.Fetch(ctx, sess.Token)
	if err != nil {
		return s.store.Get(sess.ID), err
	}

	s.commitIfCurrent(sess.ID, gen, items)
	return s.store.Get(sess.ID), nil
}

func (s *Service) signalSynced(sessionID string, committed bool) {
	if s.onSynced != nil {
		s.onSynced(sessionID, committed)
	}
}
