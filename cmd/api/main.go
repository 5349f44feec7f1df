package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"petnest-frontend-core/internal/config"
	"petnest-frontend-core/internal/platform/logger"
	"petnest-frontend-core/internal/router"
)

func main() {
	// .env opcional para dev; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.NewFromEnv()

	r, err := router.NewRouter(router.Options{Config: cfg, Log: lg})
	if err != nil {
		log.Fatalf("router init: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	lg.Info("starting gateway", map[string]any{
		"addr":     srv.Addr,
		"upstream": cfg.APIBaseURL,
		"env":      cfg.Environment,
	})

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
