package router

import (
	"net/http"

	mem "petnest-frontend-core/internal/adapters/storage/memory"
	pg "petnest-frontend-core/internal/adapters/storage/postgres"
	"petnest-frontend-core/internal/adapters/storage/redisstore"
	"petnest-frontend-core/internal/adapters/upstream/petnestapi"
	"petnest-frontend-core/internal/config"
	"petnest-frontend-core/internal/domain/admin"
	"petnest-frontend-core/internal/domain/ads"
	"petnest-frontend-core/internal/domain/feed"
	"petnest-frontend-core/internal/domain/listings"
	"petnest-frontend-core/internal/domain/session"
	"petnest-frontend-core/internal/domain/wishlist"
	"petnest-frontend-core/internal/middleware"
	"petnest-frontend-core/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Config *config.Config
	Log    logger.Logger

	// Opcional: cliente upstream ya armado (tests lo apuntan a un
	// httptest.Server). Si es nil se construye desde Config.
	API *petnestapi.Client

	// Opcional: repos explícitos. Si vienen nil se eligen por env:
	// Redis si hay REDIS_URI, Postgres si hay DB_DSN, si no in-memory.
	SessionRepo session.Repository
	ViewRepo    ads.ViewRepository
}

func NewRouter(opts Options) (http.Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Load()
	}
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	api := opts.API
	if api == nil {
		var err error
		api, err = petnestapi.NewClient(petnestapi.Config{
			BaseURL: cfg.APIBaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.APITimeout,
		}, log)
		if err != nil {
			return nil, err
		}
	}

	sessionRepo := opts.SessionRepo
	if sessionRepo == nil {
		sessionRepo = pickSessionRepo(cfg, log)
	}

	viewRepo := opts.ViewRepo
	if viewRepo == nil {
		viewRepo = mem.NewAdViewsRepo()
	}

	// Services por módulo. El sincronizador de wishlist se registra como
	// observer de transiciones dentro de su constructor.
	sessionSvc := session.NewService(sessionRepo, api, cfg.SessionTTL, log)
	wishlistSvc := wishlist.NewService(wishlist.NewStore(), api, sessionSvc, log)
	listingsSvc := listings.NewService(api, log)
	adsSvc := ads.NewService(api, viewRepo, log)
	feedSvc := feed.NewService(api, log)
	adminSvc := admin.NewService(api, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.SessionContext(sessionSvc, cfg.SessionCookieName))
	r.Use(middleware.ViewportWidth)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ck := session.CookieOptions{
		Name:   cfg.SessionCookieName,
		Secure: cfg.IsProduction(),
		TTL:    cfg.SessionTTL,
	}

	// Rutas por módulo
	session.RegisterRoutes(r, sessionSvc, ck)
	wishlist.RegisterRoutes(r, wishlistSvc)
	listings.RegisterRoutes(r, listingsSvc)
	ads.RegisterRoutes(r, adsSvc)
	feed.RegisterRoutes(r, feedSvc)
	admin.RegisterRoutes(r, adminSvc)

	return r, nil
}

// pickSessionRepo elige el storage de sesiones por env. Si el backend
// elegido no conecta, se degrada a in-memory con un warning: el gateway
// tiene que levantar igual (las sesiones no sobreviven reinicios, nada más).
func pickSessionRepo(cfg *config.Config, log logger.Logger) session.Repository {
	if cfg.RedisURI != "" {
		client, err := redisstore.Open(cfg.RedisURI)
		if err == nil {
			return redisstore.NewSessionRepo(client)
		}
		log.Warn("redis unavailable, falling back", map[string]any{"error": err.Error()})
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err == nil {
			return pg.NewSessionRepo(db)
		}
		log.Warn("postgres unavailable, falling back", map[string]any{"error": err.Error()})
	}

	return mem.NewSessionRepo()
}
