package petnestapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petnest-frontend-core/internal/platform/httpclient"
	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/ports/upstream"
)

var (
	ErrNotConfigured = errors.New("petnest api client not configured")
)

// Config del cliente hacia el backend PetNest.
// BaseURL normalmente viene de PETNEST_API_URL.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Client implementa todos los ports upstream contra el REST de PetNest.
// Esta capa no decide nada de negocio: solo traduce HTTP <-> modelos.
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
	log          logger.Logger
}

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	if log == nil {
		log = logger.Nop()
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		log:          log.With(map[string]any{"component": "petnestapi"}),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

// do centraliza headers + normalización de errores para todos los endpoints.
// token vacío => request anónimo.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}
	if strings.TrimSpace(token) != "" {
		headers["Authorization"] = "Bearer " + strings.TrimSpace(token)
	}

	err := c.http.DoJSON(ctx, method, path, headers, in, out)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: status=%d", upstream.ErrUnauthorized, httpErr.StatusCode)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s %s", upstream.ErrNotFound, method, path)
		default:
			return fmt.Errorf("%w: status=%d", upstream.ErrUpstream, httpErr.StatusCode)
		}
	}

	return fmt.Errorf("%w: %v", upstream.ErrUpstream, err)
}
