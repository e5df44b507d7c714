package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sifan077/slugurl/config"
	"github.com/sifan077/slugurl/internal/app/bootstrap"
	appserver "github.com/sifan077/slugurl/internal/app/server"
	"github.com/sifan077/slugurl/internal/infra/logger"
	infraPrometheus "github.com/sifan077/slugurl/internal/infra/prometheus"
	infraRedis "github.com/sifan077/slugurl/internal/infra/redis"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Config errors are logged with a bootstrap logger built from the environment.
	log := logger.MustInit(logger.FromEnv())
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	log = logger.MustInit(logger.FromApp(cfg.App))

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Int("port", cfg.Server.Port),
		zap.Int("slug_length", cfg.Slug.Length),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("nats", cfg.NATS.Enabled),
		zap.Bool("prometheus", cfg.Prometheus.Enabled),
	)

	rt, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{
		Events:  true,
		Metrics: cfg.Prometheus.Enabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient, err = infraRedis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info("Connected to Redis", zap.String("addr", infraRedis.Addr(cfg.Redis)))
	}

	server := appserver.New(appserver.Dependencies{
		Logger:    log.Named("http"),
		Links:     rt.Links,
		Redis:     redisClient,
		RateLimit: cfg.RateLimit,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Server.Addr()))
		return server.Listen(cfg.Server.Addr())
	})

	var promServer *http.Server
	if rt.Registry != nil {
		promServer = infraPrometheus.NewServer(cfg.Prometheus, rt.Registry)
		g.Go(func() error {
			log.Info("Starting Prometheus metrics server", zap.String("addr", promServer.Addr))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if promServer != nil {
			if err := promServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
