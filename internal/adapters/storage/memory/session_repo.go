package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petnest-frontend-core/internal/domain/session"
)

var (
	ErrNotFound = errors.New("not found")
)

type sessionRepo struct {
	mu   sync.RWMutex
	byID map[string]session.Session
	now  func() time.Time
}

func NewSessionRepo() session.Repository {
	return &sessionRepo{
		byID: make(map[string]session.Session),
		now:  time.Now,
	}
}

func (r *sessionRepo) Save(ctx context.Context, s session.Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return session.Session{}, ErrNotFound
	}
	if !s.ExpiresAt.IsZero() && !r.now().Before(s.ExpiresAt) {
		return session.Session{}, ErrNotFound
	}
	return s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}
