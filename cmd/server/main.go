package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"budget-backend/internal/auth"
	"budget-backend/internal/config"
	"budget-backend/internal/database"
	"budget-backend/internal/logging"
	"budget-backend/internal/metrics"
	"budget-backend/internal/server"
	"budget-backend/internal/spending"
	"budget-backend/internal/storage"
	"budget-backend/internal/storage/memory"
	"budget-backend/internal/storage/postgres"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// run serves until SIGINT or SIGTERM. It returns an error when the store
// cannot be opened or the listener fails for any reason other than a
// requested shutdown.
func run(cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DataBackend, err)
	}

	m := metrics.New()
	svc := spending.NewService(store,
		spending.WithLocation(cfg.ReportLocation),
		spending.WithDeletePolicy(spending.DeletePolicy(cfg.CategoryDeletePolicy)),
		spending.WithObserver(m),
	)

	app := server.New(server.Deps{
		Store:          store,
		Service:        svc,
		JWT:            auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Metrics:        m,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case sig := <-quit:
			slog.Info("shutting down", "signal", sig.String())
			if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
				slog.Error("server shutdown failed", "error", err)
			}
		case <-done:
		}
	}()

	slog.Info("server starting",
		"port", cfg.HTTPPort,
		"backend", cfg.DataBackend,
		"delete_policy", cfg.CategoryDeletePolicy,
		"report_timezone", cfg.ReportLocation.String(),
	)
	listenErr := app.Listen(":" + cfg.HTTPPort)

	if err := store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	if listenErr != nil {
		return fmt.Errorf("listen on :%s: %w", cfg.HTTPPort, listenErr)
	}
	return nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DataBackend == config.BackendMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	return postgres.New(db), nil
}
