package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"petnest-frontend-core/internal/domain/session"
	"petnest-frontend-core/internal/ports/upstream"
)

var (
	ErrNotFound = errors.New("not found")
)

const sessionKeyPrefix = "session:"

// Open conecta a Redis desde una URI (redis://...).
func Open(uri string) (*redis.Client, error) {
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// record es lo que se serializa en Redis. El TTL de la key implementa
// la expiración; expires_at viaja igual para reconstruir la sesión.
type record struct {
	User      *upstream.User `json:"user"`
	Token     string         `json:"token"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type SessionRepo struct {
	client *redis.Client
	now    func() time.Time
}

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client, now: time.Now}
}

func (r *SessionRepo) Save(ctx context.Context, s session.Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}

	b, err := json.Marshal(record{
		User:      s.User,
		Token:     s.Token,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	if err != nil {
		return err
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	return r.client.Set(ctx, sessionKeyPrefix+s.ID, b, ttl).Err()
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (session.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, ErrNotFound
	}

	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, err
	}

	// Payload corrupto => "sin sesión" (fail-safe hacia logged-out).
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.User == nil || strings.TrimSpace(rec.User.ID) == "" {
		return session.Session{}, ErrNotFound
	}

	return session.Session{
		ID:        id,
		User:      rec.User,
		Token:     rec.Token,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}
