// Package bootstrap assembles the link service from configuration. It is
// shared by the HTTP server and the admin CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sifan077/slugurl/config"
	"github.com/sifan077/slugurl/internal/app/repository"
	"github.com/sifan077/slugurl/internal/app/service"
	infraNATS "github.com/sifan077/slugurl/internal/infra/nats"
	infraPostgres "github.com/sifan077/slugurl/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/slugurl/internal/infra/prometheus"
	"github.com/sifan077/slugurl/internal/infra/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options toggles the optional integrations.
type Options struct {
	// Events publishes link events to NATS when cfg.NATS.Enabled is also set.
	Events bool
	// Metrics registers service metrics on Registry.
	Metrics bool
}

// Runtime holds the assembled service and everything that must be closed with it.
type Runtime struct {
	Links    service.LinkService
	Repo     repository.LinkRepository
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// New opens the configured store, migrates it and builds the link service.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rt := &Runtime{}

	repo, err := rt.openRepository(ctx, cfg, log)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Repo = repo

	deps := service.LinkServiceDeps{
		Repo:       repo,
		Logger:     log.Named("links"),
		SlugLength: cfg.Slug.Length,
	}

	if opts.Metrics {
		rt.Registry = infraPrometheus.NewRegistry()
		deps.Metrics = infraPrometheus.NewLinkMetrics(rt.Registry)
	}

	if opts.Events && cfg.NATS.Enabled {
		conn, js, err := infraNATS.Connect(cfg.NATS, log.Named("nats"))
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, conn.Drain)

		publisher := service.NewLinkPublisher(js)
		if err := publisher.EnsureStream(); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("bootstrap: ensure link stream: %w", err)
		}
		deps.Publisher = publisher
		log.Info("publishing link events", zap.String("stream", "LINKS"))
	}

	rt.Links = service.NewLinkService(deps)
	// Registered last so pending events flush before NATS drains.
	rt.closers = append(rt.closers, func() error {
		rt.Links.Close()
		return nil
	})
	return rt, nil
}

// Migrate creates or updates the schema of the configured store.
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := openGorm(cfg)
	if err != nil {
		return err
	}
	defer closeGorm(db)

	return repository.AutoMigrate(ctx, db)
}

func (rt *Runtime) openRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.LinkRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := Migrate(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() error { pool.Close(); return nil })
		log.Info("connected to postgres",
			zap.String("host", cfg.Postgres.Host),
			zap.Int32("max_conns", pool.Config().MaxConns),
		)
		return repository.NewPgxLinkRepository(pool), nil

	case config.DriverSQLite:
		db, err := sqlite.NewGorm(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() error { return closeGorm(db) })
		if err := repository.AutoMigrate(ctx, db); err != nil {
			return nil, err
		}
		log.Info("opened sqlite store", zap.String("dsn", cfg.SQLite.DSN))
		return repository.NewGormLinkRepository(db), nil

	default:
		return nil, fmt.Errorf("bootstrap: unknown store driver %q", cfg.Store.Driver)
	}
}

func openGorm(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return infraPostgres.NewGorm(cfg.Postgres)
	case config.DriverSQLite:
		return sqlite.NewGorm(cfg.SQLite)
	default:
		return nil, fmt.Errorf("bootstrap: unknown store driver %q", cfg.Store.Driver)
	}
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
