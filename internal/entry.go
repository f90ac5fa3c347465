// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/contacthub/internal/api"
	"github.com/starford/contacthub/internal/contactservice"
	"github.com/starford/contacthub/internal/mcpserver"
	"github.com/starford/contacthub/internal/models"
	"github.com/starford/contacthub/internal/notify"
	"github.com/starford/contacthub/internal/recordstore"
	"github.com/starford/contacthub/internal/sse"
	"github.com/starford/contacthub/internal/storage"
)

// components holds the components shared by the HTTP and MCP entrypoints.
type components struct {
	svc     *contactservice.Service
	photos  *storage.FS
	notify  *notify.Hook
	closers []io.Closer
}

func (rt *components) close(logger *slog.Logger) {
	if rt.notify != nil {
		rt.notify.Wait()
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// openStore builds the record store selected by cfg and seeds it.
func openStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (recordstore.Client, io.Closer, error) {
	var seed []models.Record
	if cfg.SeedFile != "" {
		records, err := recordstore.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load seed: %w", err)
		}
		seed = records
	}

	switch cfg.Driver {
	case StoreSQLite:
		// Ensure the database directory exists.
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := recordstore.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if len(seed) > 0 {
			n, err := db.Seed(ctx, seed)
			if err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("seed sqlite store: %w", err)
			}
			logger.Info("sqlite store seeded", slog.Int("records", n))
		}
		return db, db, nil
	default:
		mem := recordstore.NewMemory(
			recordstore.WithRecords(seed),
			recordstore.WithLatency(cfg.Latency.Min, cfg.Latency.Max),
		)
		logger.Info("memory store ready", slog.Int("records", mem.Len()))
		return mem, nil, nil
	}
}

// build wires the record store, hooks and repository. extra hooks run
// after the notification hook.
func build(ctx context.Context, app *application, logger *slog.Logger, extra ...contactservice.Hook) (*components, error) {
	cfg := app.config
	rt := &components{}

	client := app.client
	if client == nil {
		c, closer, err := openStore(ctx, cfg.Store, logger)
		if err != nil {
			return nil, err
		}
		client = c
		if closer != nil {
			rt.closers = append(rt.closers, closer)
		}
	}

	photos, err := storage.NewFS(cfg.Photos.Path)
	if err != nil {
		rt.close(logger)
		return nil, fmt.Errorf("init photo storage: %w", err)
	}
	rt.photos = photos

	var hooks []contactservice.Hook
	if cfg.Notify.Enabled || app.invoker != nil {
		inv := app.invoker
		if inv == nil {
			inv = notify.NewHTTPInvoker(cfg.Notify.URL, cfg.Notify.Timeout)
		}
		rt.notify = notify.NewHook(inv,
			notify.WithFunction(cfg.Notify.Function),
			notify.WithTimeout(cfg.Notify.Timeout),
			notify.WithLogger(logger),
		)
		hooks = append(hooks, rt.notify)
	}
	hooks = append(hooks, extra...)

	svcOpts := []contactservice.Option{
		contactservice.WithLogger(logger),
		contactservice.WithHooks(hooks...),
		contactservice.WithListFailure(cfg.Repository.ListFailure),
	}
	if app.reporter != nil {
		svcOpts = append(svcOpts, contactservice.WithReporter(app.reporter))
	}
	rt.svc = contactservice.New(client, svcOpts...)
	return rt, nil
}

// NewHandler builds the full HTTP handler: health checks, photo serving and
// the authenticated /api routes.
func NewHandler(cfg *Config, svc *contactservice.Service, photos storage.Provider, broker http.Handler) http.Handler {
	ph := api.NewPhotoHandler(photos)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, ph)

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

	// Photos are public so <img> tags can load them without a token.
	r.Get("/photos/{filename}", ph.ServeFile)

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("photos_path", cfg.Photos.Path),
		slog.Bool("notify_enabled", cfg.Notify.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker, subscribed to committed contact changes.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt, err := build(ctx, app, logger, broker)
	if err != nil {
		return err
	}
	defer rt.close(logger)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: NewHandler(cfg, rt.svc, rt.photos, broker),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close the broker first so open SSE streams end and Shutdown can finish.
		broker.Close()

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

// RunMCP serves the contact tools over stdio. Logs go to stderr since
// stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	rt, err := build(ctx, app, logger)
	if err != nil {
		return err
	}
	defer rt.close(logger)

	logger.Info("MCP server starting on stdio", slog.String("store_driver", cfg.Store.Driver))
	if err := mcpserver.New(rt.svc, rt.photos).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
