package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"consolidate/api"
	"consolidate/internal/config"
	"consolidate/internal/ingest"
	"consolidate/internal/jobs"
	"consolidate/internal/logger"
	"consolidate/internal/store"
)

func main() {
	// Load .env for local dev; production sets real env vars.
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	ing := ingest.New(st, cfg, log)

	janitor := jobs.NewJanitor(cfg, log)
	if err := janitor.Start(); err != nil {
		log.Fatalf("failed to start janitor: %v", err)
	}

	router := api.NewRouter(st, ing, log)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.WithCORS(cfg, router),
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	janitor.Stop()
}
