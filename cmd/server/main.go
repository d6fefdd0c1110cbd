package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mevzuat/internal/api"
	"github.com/dgallion1/mevzuat/internal/config"
	"github.com/dgallion1/mevzuat/internal/pathstore"
	"github.com/dgallion1/mevzuat/internal/pipeline"
	"github.com/dgallion1/mevzuat/internal/store"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		log.Error("open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	svc := pipeline.NewService(cfg, st, pipeline.NewParseStats(cfg.StatsWindow), log)
	orch := pipeline.NewOrchestrator(cfg, svc, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(svc, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		st.Close()
	}()

	log.Info("starting mevzuat", "port", cfg.Port, "store", cfg.StoreBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.DatabasePath)
	case config.BackendPathstore:
		return pathstore.NewDocumentStore(pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
