package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/pharmadocs/config"
	"github.com/oksasatya/pharmadocs/internal/container"
	"github.com/oksasatya/pharmadocs/internal/infrastructure/objectstore"
	pginfra "github.com/oksasatya/pharmadocs/internal/infrastructure/postgres"
	"github.com/oksasatya/pharmadocs/internal/router"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
	"github.com/oksasatya/pharmadocs/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	if cfg.InsecureSessionSecret() {
		if cfg.IsProduction() {
			logger.Fatal("SESSION_SECRET must be set in production")
		}
		logger.Warn("SESSION_SECRET not set; using an insecure development secret")
	}

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := pginfra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		logger.Fatalf("failed to connect to redis: %v", err)
	}

	store, closeStore, err := objectstore.Open(ctx, cfg, pool)
	if err != nil {
		logger.Fatalf("failed to init blob store: %v", err)
	}
	defer closeStore()
	logger.WithField("backend", cfg.BlobBackend).Info("blob store ready")

	// RabbitMQ is optional; without it cleanup jobs and emails are only logged.
	if cfg.RabbitMQURL != "" {
		if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQCleanupQueue); err != nil {
			logger.WithError(err).Warn("cleanup queue unavailable")
		} else {
			defer pub.Close()
			container.SetCleanupPub(pub)
		}
		if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue); err != nil {
			logger.WithError(err).Warn("email queue unavailable")
		} else {
			defer pub.Close()
			container.SetEmailPub(pub)
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetObjectStore(store)

	var mw []gin.HandlerFunc
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		mw = append(mw, cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		mw = append(mw, gin.Logger())
	}
	r := router.NewEngine(mw...)
	r.MaxMultipartMemory = 8 << 20

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()
	container.SetReady(true)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	container.SetReady(false)

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	if blobs := container.GetBlobService(); blobs != nil {
		blobs.Wait()
	}
	logger.Info("server exited properly")
}
