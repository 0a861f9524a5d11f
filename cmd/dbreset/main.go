package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/AadilJabar19/ERP-sub002/internal/config"
	"github.com/AadilJabar19/ERP-sub002/internal/maintenance"
	"github.com/AadilJabar19/ERP-sub002/internal/observability"
)

func main() {
	force := flag.Bool("force", false, "allow resetting a production database")
	dryRun := flag.Bool("dry-run", false, "connect and report the target without dropping it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = maintenance.NewResetter(maintenance.MongoConnector, logger).Run(ctx, maintenance.Options{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Env:      cfg.App.Env,
		Timeout:  cfg.Mongo.Timeout(),
		Force:    *force,
		DryRun:   *dryRun,
	})
	stop()
	if err != nil {
		logger.Error("database reset failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("database reset complete", zap.String("database", cfg.Mongo.Database), zap.Bool("dry_run", *dryRun))
	_ = logger.Sync()
}
