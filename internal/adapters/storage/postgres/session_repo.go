package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"petnest-frontend-core/internal/domain/session"
	"petnest-frontend-core/internal/ports/upstream"
)

// Esquema esperado:
//
//	CREATE TABLE sessions (
//	    id          TEXT PRIMARY KEY,
//	    user_json   JSONB NOT NULL,
//	    token       TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    expires_at  TIMESTAMPTZ NOT NULL
//	);
type SessionRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db, now: time.Now}
}

func (r *SessionRepo) Save(ctx context.Context, s session.Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}

	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_json, token, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET user_json = EXCLUDED.user_json,
		    token = EXCLUDED.token,
		    expires_at = EXCLUDED.expires_at
	`,
		s.ID,
		userJSON,
		s.Token,
		s.CreatedAt,
		s.ExpiresAt,
	)
	return err
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (session.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_json, token, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`, id)

	var (
		s        session.Session
		userJSON []byte
	)
	if err := row.Scan(&s.ID, &userJSON, &s.Token, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, err
	}

	if !r.now().Before(s.ExpiresAt) {
		return session.Session{}, ErrNotFound
	}

	// Contenido corrupto => "sin sesión" (fail-safe hacia logged-out),
	// nunca un error fatal.
	var u upstream.User
	if err := json.Unmarshal(userJSON, &u); err != nil || strings.TrimSpace(u.ID) == "" {
		return session.Session{}, ErrNotFound
	}
	s.User = &u

	return s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
