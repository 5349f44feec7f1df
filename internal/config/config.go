package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa toda la configuración del gateway.
// Una sola variable de base URL selecciona el backend PetNest (dev/staging/prod).
type Config struct {
	Port string

	// Backend PetNest (REST). Toda la lógica de negocio vive detrás de esta URL.
	APIBaseURL string
	APIKey     string
	APITimeout time.Duration

	// Sesiones del navegador (cookie HTTP-only). El token upstream nunca
	// sale hacia storage del cliente.
	SessionTTL        time.Duration
	SessionCookieName string

	// Storage de sesiones: Redis si REDIS_URI está seteado, si no Postgres
	// por DB_DSN, si no in-memory (dev).
	RedisURI string
	DBDSN    string

	Environment string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		APIBaseURL:        getEnv("PETNEST_API_URL", "http://localhost:4000"),
		APIKey:            getEnv("PETNEST_API_KEY", ""),
		APITimeout:        getDuration("PETNEST_API_TIMEOUT", 10*time.Second),
		SessionTTL:        getDuration("SESSION_TTL", 7*24*time.Hour),
		SessionCookieName: getEnv("SESSION_COOKIE", "petnest_session"),
		RedisURI:          getEnv("REDIS_URI", ""),
		DBDSN:             getEnv("DB_DSN", ""),
		Environment:       strings.ToLower(getEnv("ENV", "development")),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration acepta duraciones Go ("30s") o segundos planos ("30").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
