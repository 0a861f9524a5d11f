package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AadilJabar19/ERP-sub002/internal/api/http"
	"github.com/AadilJabar19/ERP-sub002/internal/api/http/handlers"
	"github.com/AadilJabar19/ERP-sub002/internal/auth"
	"github.com/AadilJabar19/ERP-sub002/internal/cache"
	"github.com/AadilJabar19/ERP-sub002/internal/config"
	"github.com/AadilJabar19/ERP-sub002/internal/domain"
	"github.com/AadilJabar19/ERP-sub002/internal/events"
	"github.com/AadilJabar19/ERP-sub002/internal/observability"
	"github.com/AadilJabar19/ERP-sub002/internal/persistence"
	"github.com/AadilJabar19/ERP-sub002/internal/repository"
	"github.com/AadilJabar19/ERP-sub002/internal/service"
	"github.com/AadilJabar19/ERP-sub002/internal/worker"
)

func main() {
	cfg, err := config.Load()
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

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout())
		defer closeCancel()
		mongo.Close(closeCtx)
	}()

	if cfg.Mongo.EnsureIndexes {
		indexes := persistence.IndexSet{domain.DepartmentCollection: repository.DepartmentIndexes}
		if err := persistence.EnsureIndexes(ctx, mongo.Database(), indexes, logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	var publisher *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer publisher.Close()
	}
	worker.StartEventWorkers(dispatcher, service.NewAuditService(dispatcher, logger), publisher)

	departmentService := service.NewDepartmentService(service.DepartmentDependencies{
		DepartmentRepo: repository.NewDepartmentRepository(mongo.Database()),
		EmployeeRepo:   repository.NewEmployeeRepository(mongo.Database()),
		Cache:          cache.NewDepartmentCache(redis.Client, cfg.Redis.CacheTTL()),
		Dispatcher:     dispatcher,
	}, logger)

	var authMiddleware *auth.AuthMiddleware
	if cfg.Auth.Enabled {
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
		authMiddleware = auth.NewAuthMiddleware(tokens)
	} else {
		logger.Warn("authentication disabled")
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"mongodb": mongo,
			"redis":   redis,
		}),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		Placeholders:   cfg.Modules.Placeholders,
	})

	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.App.Addr()),
			zap.Strings("placeholder_modules", cfg.Modules.Placeholders))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
