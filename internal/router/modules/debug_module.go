package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/pharmadocs/internal/interface/http"
	"github.com/oksasatya/pharmadocs/internal/interface/middleware"
)

// DebugModule exposes /api/health and, when enabled, expvar at /api/debug/vars.
type DebugModule struct {
	Health  *handlers.HealthHandler
	RDB     *redis.Client
	Metrics bool
}

func NewDebugModule(health *handlers.HealthHandler, rdb *redis.Client, metrics bool) *DebugModule {
	return &DebugModule{Health: health, RDB: rdb, Metrics: metrics}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)
	if !m.Metrics {
		return
	}
	// Public metrics endpoint (expvar), rate-limited per IP; private networks bypass.
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
