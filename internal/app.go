// Package internal wires the configuration, storage, engine, HTTP server
// and background jobs into one application.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/karloscodes/cartridge"

	"cyberdock/internal/config"
	"cyberdock/internal/database"
	"cyberdock/internal/engine"
	"cyberdock/internal/filters"
	"cyberdock/internal/http"
	"cyberdock/internal/jobs"
	"cyberdock/internal/store"
	"cyberdock/internal/timeframe"
)

// Application wraps cartridge.Application with the sales components.
type Application struct {
	*cartridge.Application
	Config    *config.Config
	DBManager *database.DBManager // nil when reading from Postgres
	Source    store.Source
	Cache     *store.CachedSource
	Engine    *engine.Engine
	Scheduler *jobs.Scheduler

	closers []func() error
}

// Option customizes NewAppWithConfig.
type Option func(*Application)

// WithTimeProvider replaces the clock the engine uses.
func WithTimeProvider(p timeframe.TimeProvider) Option {
	return func(a *Application) {
		a.Engine = engine.New(p, a.Config.Location()).WithPalette(a.Config.GetPalette())
	}
}

// NewApp creates a new application instance with default settings
func NewApp(opts ...Option) (*Application, error) {
	return NewAppWithConfig(config.GetConfig(), opts...)
}

// NewAppWithConfig opens the configured record source and builds the
// application around it.
func NewAppWithConfig(cfg *config.Config, opts ...Option) (*Application, error) {
	logger := cartridge.NewLogger(cfg, cartridge.LogConfigFromProvider(cfg))

	if cfg.UsesPostgres() {
		pg, err := store.OpenPostgres(context.Background(), cfg.PostgresDSN, cfg.GetMaxOpenConns(), cfg.GetMaxIdleConns())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		app, err := NewAppWithSource(cfg, logger, pg, database.Remote{}, pg, opts...)
		if err != nil {
			pg.Close()
			return nil, err
		}
		app.closers = append(app.closers, pg.Close)
		return app, nil
	}

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app, err := NewAppWithSource(cfg, logger, store.NewGormSource(dbManager.GetConnection(), logger), dbManager, dbManager, opts...)
	if err != nil {
		dbManager.Close()
		return nil, err
	}
	app.DBManager = dbManager
	app.closers = append(app.closers, dbManager.Close)
	return app, nil
}

// NewAppWithSource builds the application on an already open source.
func NewAppWithSource(cfg *config.Config, logger *slog.Logger, source store.Source, dbManager cartridge.DBManager, db http.Pinger, opts ...Option) (*Application, error) {
	dispatch, err := filters.ParseDispatch(cfg.DefaultDispatch)
	if err != nil {
		return nil, err
	}
	cache := store.NewCachedSource(source, cfg.CacheTTL(), logger)

	app := &Application{
		Config: cfg,
		Source: source,
		Cache:  cache,
		Engine: engine.New(&timeframe.DefaultTimeProvider{}, cfg.Location()).WithPalette(cfg.GetPalette()),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.Scheduler = jobs.NewScheduler(logger)
	// A zero TTL disables caching, so there is nothing to warm.
	if ttl := cfg.CacheTTL(); ttl > 0 {
		app.Scheduler.Register("cache_warm", ttl, jobs.NewCacheWarmJob(cache, logger, ttl))
		app.Scheduler.Register("cache_purge", ttl, jobs.NewCachePurgeJob(cache, logger))
	}

	handlers := http.NewHandlers(cache, app.Engine, db, logger)
	handlers.Defaults = http.QueryDefaults{Status: cfg.DefaultStatus, Dispatch: dispatch}
	if handlers.Defaults.Status == "" {
		handlers.Defaults.Status = http.DefaultQueryDefaults().Status
	}

	serverCfg := cartridge.DefaultServerConfig()
	serverCfg.ErrorHandler = http.ErrorHandler(logger)
	serverCfg.EnableTemplates = false
	serverCfg.EnableStaticAssets = false

	app.Application, err = cartridge.NewApplication(cartridge.ApplicationOptions{
		Config:       cfg,
		Logger:       logger,
		DBManager:    dbManager,
		ServerConfig: serverCfg,
		RouteMountFunc: func(srv *cartridge.Server) {
			MountAppRoutes(srv, cfg, handlers)
		},
		BackgroundWorkers: []cartridge.BackgroundWorker{app.Scheduler},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// Shutdown stops the jobs, the listener and the database handles.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Application.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
