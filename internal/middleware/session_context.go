package middleware

import (
	"context"
	"net/http"
	"strings"

	"petnest-frontend-core/internal/domain/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionContext resuelve la cookie de sesión y deja la sesión en el
// contexto. Lookup sin efectos (no es restore): no dispara transiciones.
// Si no hay cookie o la sesión no existe, el request sigue anónimo; cada
// handler decide si exige auth.
func SessionContext(svc *session.Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || strings.TrimSpace(c.Value) == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := svc.Current(r.Context(), c.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (session.Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}
