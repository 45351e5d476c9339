// Package main is the entry point for the registration hub server: the
// semester-registration approval workflow behind the campus portal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/campus-hub/registration-hub/config"
	"github.com/campus-hub/registration-hub/internal/application/command"
	"github.com/campus-hub/registration-hub/internal/application/eventhandler"
	"github.com/campus-hub/registration-hub/internal/application/query"
	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
	"github.com/campus-hub/registration-hub/internal/infrastructure/messaging"
	"github.com/campus-hub/registration-hub/internal/infrastructure/metrics"
	"github.com/campus-hub/registration-hub/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/registration-hub/internal/infrastructure/persistence/postgres"
	redisstore "github.com/campus-hub/registration-hub/internal/infrastructure/persistence/redis"
	"github.com/campus-hub/registration-hub/internal/infrastructure/service"
	httpserver "github.com/campus-hub/registration-hub/internal/interface/http"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting registration hub",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"store", cfg.App.Store,
	)

	// Storage.
	var (
		repo      registration.Repository
		moduleCat catalog.Catalog
		readiness = map[string]httpserver.Pinger{}
		staticCat = catalog.NewStaticCatalog()
	)

	switch cfg.App.Store {
	case config.StorePostgres:
		conn, err := connectPostgres(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		if cfg.Database.Migrate {
			if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}

		catalogRepo := postgres.NewCatalogRepository(conn)
		if err := catalogRepo.Seed(ctx, staticCat); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}

		repo = postgres.NewSubmissionRepository(conn)
		moduleCat = catalogRepo
		readiness["postgres"] = conn

	default:
		repo = memory.NewSubmissionRepository()
		moduleCat = staticCat
	}

	// Redis cache, when available.
	var cache *redisstore.Cache
	if !cfg.Redis.Disabled {
		cache, err = redisstore.NewCache(redisstore.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			if cfg.IsProduction() {
				return fmt.Errorf("connect redis: %w", err)
			}
			logger.Warn("redis unavailable, continuing without cache", "error", err)
			cache = nil
		}
	}
	if cache != nil {
		defer cache.Close()
		repo = redisstore.NewCachedSubmissionRepository(repo, cache, logger)
		readiness["redis"] = cache
	}

	// Event bus.
	localBusCfg := messaging.InMemoryEventBusConfig{
		AsyncMode:      cfg.Events.AsyncHandlers,
		WorkerPoolSize: cfg.Events.WorkerPoolSize,
		Logger:         logger,
	}

	var bus shared.EventBus
	if cfg.Events.Distributed && cache != nil {
		bus, err = messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         cache.Client(),
			LocalBusConfig: localBusCfg,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("start redis event bus: %w", err)
		}
	} else {
		bus = messaging.NewInMemoryEventBus(localBusCfg)
	}
	defer bus.Close()

	// Subscribers.
	m := metrics.New()
	if err := bus.SubscribeAll(m.EventRecorder()); err != nil {
		return fmt.Errorf("subscribe metrics recorder: %w", err)
	}

	sender := service.NewLogNotificationSender(logger, 0)
	subscriptions := map[shared.EventType]shared.EventHandler{
		shared.EventSubmissionCreated:  eventhandler.NewOnSubmissionCreatedHandler(sender, logger).Handle,
		shared.EventSubmissionAdvanced: eventhandler.NewOnSubmissionAdvancedHandler(sender, logger).Handle,
		shared.EventSubmissionRejected: eventhandler.NewOnSubmissionRejectedHandler(sender, logger).Handle,
	}
	for eventType, handler := range subscriptions {
		if err := bus.Subscribe(eventType, handler); err != nil {
			return fmt.Errorf("subscribe %s handler: %w", eventType, err)
		}
	}

	// Application layer.
	ids := service.NewUUIDGenerator()
	clock := command.SystemClock()

	server := httpserver.NewServer(httpserver.Config{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.App.ShutdownTimeout,
	}, httpserver.Dependencies{
		CreateSubmission:     command.NewCreateSubmissionHandler(repo, moduleCat, bus, ids, clock, logger),
		ApproveSubmission:    command.NewApproveSubmissionHandler(repo, bus, clock, logger),
		RejectSubmission:     command.NewRejectSubmissionHandler(repo, bus, clock, logger),
		GetSubmission:        query.NewGetSubmissionHandler(repo),
		GetStudentSubmission: query.NewGetStudentSubmissionHandler(repo),
		ListPendingForRole:   query.NewListPendingForRoleHandler(repo),
		GetApprovalHistory:   query.NewGetApprovalHistoryHandler(repo),
		Metrics:              m,
		Logger:               logger,
		ReadinessChecks:      readiness,
	})

	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("registration hub stopped")
	return nil
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*postgres.Connection, error) {
	if cfg.URL != "" {
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return conn, nil
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.Host = cfg.Host
	pgCfg.Port = cfg.Port
	pgCfg.Database = cfg.Name
	pgCfg.User = cfg.User
	pgCfg.Password = cfg.Password
	pgCfg.SSLMode = cfg.SSLMode
	pgCfg.MaxConns = cfg.MaxConns
	pgCfg.MinConns = cfg.MinConns
	pgCfg.ConnectTimeout = cfg.ConnectTimeout

	conn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return conn, nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
