package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/silverrose/clinicforms/internal/config"
	"github.com/silverrose/clinicforms/internal/stubserver"
	"github.com/silverrose/clinicforms/pkg/logging"
)

const version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("stub-backend starting up", "env", cfg.Env, "http_port", cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := stubserver.NewStore()
	router := stubserver.NewRouter(stubserver.RouterConfig{
		Store:   store,
		Env:     cfg.Env,
		Version: version,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		os.Exit(1)
	case <-rootCtx.Done():
	}

	logger.Info("shutting down stub-backend")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	appointments, contacts := store.Counts()
	logger.Info("stub-backend stopped", "appointments", appointments, "contacts", contacts)
}
