package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

const widthKey ctxKey = "viewport_width"

// ViewportHeader es el header con el ancho de viewport que manda el
// frontend. La clasificación mobile/desktop es una función pura de este
// valor; la lógica de negocio nunca lee estado global de "window".
const ViewportHeader = "X-Viewport-Width"

// ViewportWidth deja el ancho de viewport en el contexto. Acepta también
// ?vw= como fallback (links directos, debugging). Sin valor => 0, que la
// clasificación trata como desktop.
func ViewportWidth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(ViewportHeader))
		if raw == "" {
			raw = strings.TrimSpace(r.URL.Query().Get("vw"))
		}

		width := 0
		if raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				width = n
			}
		}

		ctx := context.WithValue(r.Context(), widthKey, width)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetViewportWidth(ctx context.Context) int {
	v := ctx.Value(widthKey)
	if v == nil {
		return 0
	}
	n, _ := v.(int)
	return n
}
