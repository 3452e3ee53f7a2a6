package app

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

	"ecdash/internal/config"
	"ecdash/internal/dataset"
	apierrors "ecdash/internal/errors"
	"ecdash/internal/files"
	"ecdash/internal/infrastructure"
	custommw "ecdash/internal/middleware"
	"ecdash/internal/observability"
	"ecdash/internal/services"
	handlers "ecdash/internal/transport/http"
)

// Version identifies the running build.
const Version = "1.0.0"

// Application is the assembled service: configuration, logging, the
// dataset store and the HTTP server.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Router  *chi.Mux
	Server  *http.Server
	Metrics *observability.Metrics

	Registry      *dataset.Registry
	Store         *dataset.Store
	DataService   *services.DataService
	HealthService *services.HealthService
}

// NewApplication loads configuration from the default locations and
// assembles the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewApplicationWith(cfg, logger)
}

// NewApplicationWith assembles the application from an already-loaded
// configuration and logger.
func NewApplicationWith(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("data_dir", cfg.Paths.DataDir))

	baseDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	paths, err := config.NewPaths(baseDir, cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	metrics := observability.NewMetrics()
	registry := dataset.DefaultRegistry()
	resolver := files.NewResolver(logger)

	store := dataset.NewStore(
		dataset.NewEnvLoader(resolver, registry, logger, cfg.Loader.AllowPartial),
		dataset.NewGrowthLoader(resolver, registry, logger),
		paths.DataDir,
		logger,
		metrics,
	)

	dataService := services.NewDataService(store, registry, logger)
	healthService := services.NewHealthService(Version, paths.DataDir, store, logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		Registry:      registry,
		Store:         store,
		DataService:   dataService,
		HealthService: healthService,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// setupRouter assembles the middleware chain and mounts the handlers.
func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Metrics(a.Metrics))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))
	r.Use(custommw.CORS(custommw.CORSConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
	}))

	if a.Config.Server.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	dataHandler := handlers.NewDataHandler(a.DataService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Mount("/api", dataHandler.Routes())
	r.Get("/healthz", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled
// or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the cache before accepting traffic so the first request does
	// not pay the load cost. A failed warm-up is logged, not fatal: the
	// API reports the missing dataset per request.
	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if _, err := a.Store.Get(warmCtx); err != nil {
		a.Logger.Warn("initial dataset load failed",
			slog.String("error", err.Error()))
	}
	cancel()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.Logger.Info("shutdown complete")
	return nil
}
