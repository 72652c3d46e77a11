package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/account-registry/internal/api/http"
	"github.com/spec-kit/account-registry/internal/api/http/handlers"
	"github.com/spec-kit/account-registry/internal/auth"
	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/events"
	"github.com/spec-kit/account-registry/internal/observability"
	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
	"github.com/spec-kit/account-registry/internal/repository/sqlitestore"
	"github.com/spec-kit/account-registry/internal/service"
	"github.com/spec-kit/account-registry/internal/worker"
)

func main() {
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply schema migrations and exit")
	pflag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, storage, closeStorage := openStorage(ctx, cfg, *migrateOnly, logger)
	defer closeStorage()
	if *migrateOnly {
		logger.Info("migrations applied", zap.String("driver", cfg.Storage.Driver))
		return
	}

	dependencies := map[string]handlers.Pinger{cfg.Storage.Driver: storage}
	var publisher service.Publisher
	if redis := persistence.NewRedis(cfg.Redis, logger); redis != nil {
		defer redis.Close()
		publisher = redis
		dependencies["redis"] = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, logger, cfg.Events))

	identity, err := service.NewIdentityService(cfg.Auth, service.IdentityDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init identity service", zap.Error(err))
	}
	approval := service.NewApprovalService(service.ApprovalDependencies{Store: store, Dispatcher: dispatcher, Logger: logger})
	tickets := service.NewTicketService(service.TicketDependencies{Store: store, Dispatcher: dispatcher, Logger: logger})

	var authorizer auth.Authorizer = auth.AllowAll
	if cfg.Auth.JWTSecret != "" {
		authorizer = auth.NewTokenAuthorizer(auth.NewTokenVerifier(cfg.Auth.JWTSecret))
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, admin routes are open")
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, dependencies),
		Users:      handlers.NewUsersHandler(identity),
		Companies:  handlers.NewCompaniesHandler(identity, approval),
		Admins:     handlers.NewAdminsHandler(identity),
		Problems:   handlers.NewProblemsHandler(tickets),
		Authorizer: authorizer,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// openStorage connects the configured engine, applies migrations when
// enabled, and returns the repositories with their readiness probe.
func openStorage(ctx context.Context, cfg *config.Config, forceMigrate bool, logger *zap.Logger) (*repository.Store, handlers.Pinger, func()) {
	migrate := cfg.Storage.RunMigrations || forceMigrate

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if migrate {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		return repository.NewPostgresStore(pg.PoolHandle()), pg, pg.Close
	default:
		db, err := persistence.NewSQLite(cfg.SQLite, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		if migrate {
			if err := persistence.RunSQLiteMigrations(ctx, db, logger); err != nil {
				db.Close()
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		return sqlitestore.NewStore(db), db, db.Close
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
