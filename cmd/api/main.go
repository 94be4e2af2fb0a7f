package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrosariodev/dealscout/internal/api"
	"github.com/jrosariodev/dealscout/internal/config"
	"github.com/jrosariodev/dealscout/internal/pipeline"
	"github.com/jrosariodev/dealscout/internal/search"
	"github.com/jrosariodev/dealscout/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = log.With("component", "api-server")

	store := pipeline.NewSnapshotStore(cfg.Scraper.SnapshotFile)
	engine := search.NewEngine()

	// The API serves whatever the last scraper run wrote. Starting without
	// a snapshot is fine; /api/v1/deals reports unavailable until one lands.
	if snapshot, err := store.Load(); err != nil {
		log.Warn("no snapshot at startup", "file", cfg.Scraper.SnapshotFile, "error", err)
	} else {
		deals := snapshot.Deals()
		engine.Index(deals)
		log.Info("search index built", "deals", len(deals), "generated_at", snapshot.Metadata.GeneratedAt)
	}

	handlers := api.NewHandlers(store, engine, log)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
