package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/medicity-console/internal/api/http"
	"github.com/spec-kit/medicity-console/internal/api/http/handlers"
	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/clients"
	"github.com/spec-kit/medicity-console/internal/config"
	"github.com/spec-kit/medicity-console/internal/events"
	"github.com/spec-kit/medicity-console/internal/observability"
	"github.com/spec-kit/medicity-console/internal/persistence"
	"github.com/spec-kit/medicity-console/internal/repository"
	"github.com/spec-kit/medicity-console/internal/service"
	"github.com/spec-kit/medicity-console/internal/session"
	"github.com/spec-kit/medicity-console/internal/worker"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the console server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, deps, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	routes := auth.DefaultRoleRoutes()
	if cfg.Routes.File != "" {
		if routes, err = auth.LoadRoleRoutes(cfg.Routes.File); err != nil {
			return err
		}
		logger.Info("loaded role routes", zap.String("file", cfg.Routes.File))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	provider := session.NewProvider(session.Dependencies{
		Storage:    storage,
		Auth:       clients.NewAuthClient(cfg.Backend.LoginURL(), cfg.Backend.AuthTimeout()),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: !cfg.App.IsLocal()})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Session:  handlers.NewSessionHandler(),
		Screens:  handlers.NewScreensHandler(routes),
		API:      handlers.NewAPIProxyHandler(cfg.Backend.BaseURL, logger),
		Sessions: provider,
		Routes:   routes,
		Cookie:   auth.CookieOptions{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure},
		Metrics:  metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("console started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("storage", cfg.Session.StorageDriver),
	)

	waitForShutdown(logger)

	return app.Shutdown()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ClientStorage, map[string]handlers.Pinger, func(), error) {
	switch cfg.Session.StorageDriver {
	case config.StorageRedis:
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		storage := repository.NewRedisClientStorage(redis.Client, cfg.Redis.KeyPrefix)
		return storage, map[string]handlers.Pinger{"redis": redis}, redis.Close, nil

	case config.StoragePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, nil, err
			}
		}
		storage := repository.NewPostgresClientStorage(pg.PoolHandle())
		return storage, map[string]handlers.Pinger{"postgres": pg}, pg.Close, nil

	default:
		logger.Warn("client sessions are kept in memory and lost on restart")
		return repository.NewMemoryClientStorage(), nil, func() {}, nil
	}
}
