package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

// Observer recibe transiciones de sesión. Se ejecutan de forma síncrona,
// en orden de registro, antes de que la transición retorne: así el
// sincronizador de wishlist limpia estado viejo antes de que cualquier
// caller pueda observar la sesión nueva.
type Observer func(Transition)

type Service struct {
	repo Repository
	auth upstream.AuthAPI
	log  logger.Logger

	ttl   time.Duration
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	observers []Observer
	gens      map[string]genRecord
}

// genRecord lleva la generación vigente de una sesión junto con su
// vencimiento, para poder podar entradas de sesiones que expiran sin
// pasar por Logout.
type genRecord struct {
	gen       uint64
	expiresAt time.Time
}

func NewService(repo Repository, auth upstream.AuthAPI, ttl time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		repo:  repo,
		auth:  auth,
		log:   log.With(map[string]any{"component": "session"}),
		ttl:   ttl,
		now:   time.Now,
		newID: uuid.NewString,
		gens:  map[string]genRecord{},
	}
}

// OnTransition registra un observer. Registro explícito en lugar de
// pattern-matching sobre un bus de acciones.
func (s *Service) OnTransition(fn Observer) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Result es el desenlace de login/verify-otp: o credenciales completas
// con sesión establecida, o pendiente de OTP.
type Result struct {
	OTPPending bool
	Message    string
	Session    Session
}

func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return Result{}, err
	}
	if res.OTPPending {
		return Result{OTPPending: true, Message: res.Message}, nil
	}

	sess, err := s.establish(ctx, TransitionLogin, res.User, res.Token)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: res.Message, Session: sess}, nil
}

func (s *Service) VerifyOTP(ctx context.Context, email, code string) (Result, error) {
	res, err := s.auth.VerifyOTP(ctx, email, code)
	if err != nil {
		return Result{}, err
	}
	if res.OTPPending {
		return Result{OTPPending: true, Message: res.Message}, nil
	}

	sess, err := s.establish(ctx, TransitionLogin, res.User, res.Token)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: res.Message, Session: sess}, nil
}

func (s *Service) ResendOTP(ctx context.Context, email string) error {
	return s.auth.ResendOTP(ctx, email)
}

// Restore rehidrata la sesión identificada por la cookie, sin round-trip
// al backend. Nunca falla: storage corrupto, sesión vencida o ID vacío
// terminan en sesión anónima (fail-safe hacia logged-out).
func (s *Service) Restore(ctx context.Context, id string) Session {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}
	}
	s.pruneExpired()

	sess, err := s.repo.GetByID(ctx, id)
	if err != nil || sess.User == nil {
		s.evict(id)
		return Session{}
	}
	if !sess.ExpiresAt.IsZero() && !s.now().Before(sess.ExpiresAt) {
		s.evict(id)
		return Session{}
	}

	sess.Generation = s.bumpGeneration(id, sess.ExpiresAt)
	s.notify(Transition{Kind: TransitionRestore, Session: sess})
	return sess
}

// Current es el lookup del middleware: no dispara transición de restore
// ni avanza la generación. Si la cookie apunta a una sesión muerta
// (vencida o borrada del storage), el estado en memoria asociado se
// recupera acá mismo.
func (s *Service) Current(ctx context.Context, id string) (Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, false
	}
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil || sess.User == nil {
		s.evict(id)
		return Session{}, false
	}
	if !sess.ExpiresAt.IsZero() && !s.now().Before(sess.ExpiresAt) {
		s.evict(id)
		return Session{}, false
	}
	return sess, true
}

// Logout cierra la sesión local. El orden importa: primero se invalida la
// generación y se notifica a los observers (la wishlist se limpia acá,
// estrictamente antes de que el logout complete), recién después se avisa
// al upstream (best-effort) y se borra el registro.
func (s *Service) Logout(ctx context.Context, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}

	sess, getErr := s.repo.GetByID(ctx, id)

	gen := s.bumpGeneration(id, time.Time{})
	s.notify(Transition{Kind: TransitionLogout, Session: Session{ID: id, Generation: gen}})

	if getErr == nil && strings.TrimSpace(sess.Token) != "" {
		if err := s.auth.Logout(ctx, sess.Token); err != nil {
			s.log.Warn("upstream logout failed", map[string]any{"error": err.Error()})
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Warn("session delete failed", map[string]any{"error": err.Error()})
	}

	s.mu.Lock()
	delete(s.gens, id)
	s.mu.Unlock()
}

// Generation devuelve la generación vigente de una sesión. Una sesión
// desconocida (cerrada o nunca vista) o ya vencida devuelve 0, que jamás
// coincide con una generación estampada.
func (s *Service) Generation(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.gens[id]
	if !ok {
		return 0
	}
	if !r.expiresAt.IsZero() && !s.now().Before(r.expiresAt) {
		return 0
	}
	return r.gen
}

func (s *Service) establish(ctx context.Context, kind TransitionKind, user *upstream.User, token string) (Session, error) {
	s.pruneExpired()

	now := s.now()
	sess := Session{
		ID:        s.newID(),
		User:      user,
		Token:     strings.TrimSpace(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	sess.Generation = s.bumpGeneration(sess.ID, sess.ExpiresAt)

	if err := s.repo.Save(ctx, sess); err != nil {
		return Session{}, err
	}

	s.notify(Transition{Kind: kind, Session: sess})
	return sess, nil
}

func (s *Service) bumpGeneration(id string, expiresAt time.Time) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.gens[id]
	r.gen++
	if !expiresAt.IsZero() {
		r.expiresAt = expiresAt
	}
	s.gens[id] = r
	return r.gen
}

// evict recupera el estado en memoria de una sesión muerta (vencida o
// ausente del storage). Notifica un logout para que los observers
// liberen lo suyo; la wishlist de esa sesión se limpia por esa vía.
func (s *Service) evict(id string) {
	s.mu.Lock()
	r, ok := s.gens[id]
	if ok {
		delete(s.gens, id)
	}
	s.mu.Unlock()

	if ok {
		s.notify(Transition{Kind: TransitionLogout, Session: Session{ID: id, Generation: r.gen + 1}})
	}
}

// pruneExpired poda las generaciones de sesiones ya vencidas. Lazy, en
// los caminos de escritura, igual que el repo de ad views: sin goroutine
// de fondo. Cada sesión podada notifica logout, así el estado por sesión
// de los observers no crece sin límite con cookies que nunca vuelven.
func (s *Service) pruneExpired() {
	now := s.now()

	s.mu.Lock()
	var dead []Transition
	for id, r := range s.gens {
		if !r.expiresAt.IsZero() && !now.Before(r.expiresAt) {
			delete(s.gens, id)
			dead = append(dead, Transition{Kind: TransitionLogout, Session: Session{ID: id, Generation: r.gen + 1}})
		}
	}
	s.mu.Unlock()

	for _, t := range dead {
		s.notify(t)
	}
}

func (s *Service) notify(t Transition) {
	s.mu.Lock()
	obs := make([]Observer, len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()

	for _, fn := range obs {
		fn(t)
	}
}
