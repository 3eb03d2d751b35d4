package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pharmadocs/config"
	"github.com/oksasatya/pharmadocs/internal/infrastructure/objectstore"
	pginfra "github.com/oksasatya/pharmadocs/internal/infrastructure/postgres"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-blob-janitor", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQCleanupQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store, closeStore, err := objectstore.Open(ctx, cfg, pool)
	if err != nil {
		logger.Fatalf("failed to init blob store: %v", err)
	}
	defer closeStore()

	j := &janitor{Blobs: pginfra.NewBlobRepository(pool), Objects: store, Logger: logger}
	if err := helpers.ConsumeJSON(ctx, cfg.RabbitMQURL, cfg.RabbitMQCleanupQueue, 8, logger, j.Handle); err != nil {
		logger.Fatalf("blob janitor stopped: %v", err)
	}
	logger.Info("blob janitor exited")
}
