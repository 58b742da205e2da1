package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httphandler "github.com/ericfisherdev/accountdesk/internal/adapter/driving/http"
	"github.com/ericfisherdev/accountdesk/internal/application"
	"github.com/ericfisherdev/accountdesk/internal/config"
	"github.com/ericfisherdev/accountdesk/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"storage", cfg.Storage,
		"notification_timeout", cfg.NotificationTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the storage backend.
	kv, closeStorage, err := storage.Open(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			slog.Error("error closing storage", "error", closeErr)
		}
	}()

	// 4. Load accounts and create the notification queue.
	accounts := application.NewAccountStore(ctx, kv, slog.Default())
	notifications := application.NewNotificationStore(cfg.NotificationTimeout)
	defer notifications.Close()

	// 5. Create HTTP handler and routes.
	apiHandler := httphandler.NewHandler(accounts, notifications, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(apiHandler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Shutdown waits for active requests, and event streams never finish on their own.
	srv.RegisterOnShutdown(apiHandler.CloseStreams)

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("accountdesk started",
		"listen_addr", cfg.ListenAddr,
		"accounts", len(accounts.List()),
	)

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 7. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
