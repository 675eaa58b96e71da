// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/day-s-ea/Calendar-Todo/internal/api"
	"github.com/day-s-ea/Calendar-Todo/internal/planner"
	"github.com/day-s-ea/Calendar-Todo/internal/sse"
	"github.com/day-s-ea/Calendar-Todo/internal/storage"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
	"github.com/day-s-ea/Calendar-Todo/internal/watcher"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage.
	provider, cleanup, err := openProvider(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer cleanup()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Calendar store.
	store := planner.NewStore(provider,
		planner.WithLogger(logger),
		planner.WithHorizon(cfg.Planner.HorizonDays),
		planner.WithChangeListener(broker.PublishChange),
	)
	store.Load()

	// Build API router.
	apiRouter := api.NewRouter(store, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Scheduled cleanup of past entries.
	var sched *cron.Cron
	if cfg.Planner.CleanupSchedule != "" {
		sched = cron.New()
		_, err := sched.AddFunc(cfg.Planner.CleanupSchedule, func() {
			today := timeutil.ToISODate(time.Now())
			if err := store.ClearPastData(today); err != nil {
				logger.Warn("scheduled cleanup failed", slog.String("error", err.Error()))
			} else {
				logger.Info("scheduled cleanup done", slog.String("before", today))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cleanup schedule %q: %w", cfg.Planner.CleanupSchedule, err)
		}
		sched.Start()
		defer sched.Stop()
	}

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch record files for external edits (fs driver only).
	if cfg.Storage.Driver == StorageDriverFS {
		g.Go(func() error {
			watcher.Watch(gCtx, store, cfg.Storage.Path, logger, func() {
				broker.PublishChange("calendar.reloaded", "")
			})
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// openProvider builds the storage backend selected by the config.
func openProvider(cfg *Config) (storage.Provider, func(), error) {
	switch cfg.Storage.Driver {
	case StorageDriverSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
