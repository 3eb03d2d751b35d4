package container

import (
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/config"
	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	objectStore repository.ObjectStore

	cleanupPub *helpers.RabbitPublisher
	emailPub   *helpers.RabbitPublisher

	blobService *application.BlobService

	ready atomic.Bool
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger != nil {
		return logger
	}
	return helpers.NopLogger()
}
func SetPGPool(p *pgxpool.Pool)                     { pgPool = p }
func GetPGPool() *pgxpool.Pool                      { return pgPool }
func SetRedis(r *redis.Client)                      { redisClient = r }
func GetRedis() *redis.Client                       { return redisClient }
func SetObjectStore(s repository.ObjectStore)       { objectStore = s }
func GetObjectStore() repository.ObjectStore        { return objectStore }
func SetCleanupPub(p *helpers.RabbitPublisher)      { cleanupPub = p }
func GetCleanupPub() *helpers.RabbitPublisher       { return cleanupPub }
func SetEmailPub(p *helpers.RabbitPublisher)        { emailPub = p }
func GetEmailPub() *helpers.RabbitPublisher         { return emailPub }
func SetBlobService(s *application.BlobService)     { blobService = s }
func GetBlobService() *application.BlobService      { return blobService }

// SetReady flips the readiness flag checked by the API middleware.
func SetReady(v bool) { ready.Store(v) }
func IsReady() bool   { return ready.Load() }
