package router

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/container"
	pginfra "github.com/oksasatya/pharmadocs/internal/infrastructure/postgres"
	"github.com/oksasatya/pharmadocs/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/pharmadocs/internal/interface/http"
	"github.com/oksasatya/pharmadocs/internal/interface/middleware"
	"github.com/oksasatya/pharmadocs/internal/router/modules"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

type Services struct {
	Sessions *application.SessionManager
	Auth     *application.AuthService
	Profiles *application.ProfileService
	Blobs    *application.BlobService
}

// publisher avoids handing a typed nil *RabbitPublisher to an interface field.
func publisher(p *helpers.RabbitPublisher) application.Publisher {
	if p == nil {
		return nil
	}
	return p
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	blobs := pginfra.NewBlobRepository(pool)

	sessions := application.NewSessionManager(
		redisstore.NewSessionStore(container.GetRedis()),
		helpers.NewSessionSigner(cfg.SessionSecret, application.SessionTTL),
	)
	blobSvc := application.NewBlobService(blobs, container.GetObjectStore(), logger, cfg.UploadMaxBytes, publisher(container.GetCleanupPub()))
	container.SetBlobService(blobSvc)

	return Services{
		Sessions: sessions,
		Auth:     application.NewAuthService(users, profiles, sessions, logger, publisher(container.GetEmailPub())),
		Profiles: application.NewProfileService(profiles, blobSvc, logger),
		Blobs:    blobSvc,
	}
}

func healthChecks() map[string]handlers.CheckFunc {
	return map[string]handlers.CheckFunc{
		"postgres": func(ctx context.Context) error { return container.GetPGPool().Ping(ctx) },
		"redis":    func(ctx context.Context) error { return helpers.PingRedis(ctx, container.GetRedis()) },
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := buildServices()

	auth := middleware.Auth(svc.Sessions, logger)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	r.Use(middleware.Ready(container.IsReady))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cookies), auth, rdb))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(svc.Profiles, logger, cfg.UploadMaxBytes), auth))
	r.Add(modules.NewFileModule(handlers.NewFileHandler(svc.Blobs, logger), auth))
	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(healthChecks(), logger), rdb, cfg.DebugMetricsEnabled))
	r.AddRoot(modules.NewPageModule(handlers.NewPageHandler()))
}

// NewEngine builds a gin engine with the global middleware stack.
func NewEngine(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Recovery(container.GetLogger()))
	r.Use(middleware.RealIP())
	r.Use(extra...)
	return r
}
