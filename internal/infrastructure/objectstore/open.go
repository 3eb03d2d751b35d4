package objectstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pharmadocs/config"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
	pginfra "github.com/oksasatya/pharmadocs/internal/infrastructure/postgres"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

const (
	BackendPostgres = "postgres"
	BackendGCS      = "gcs"
	BackendS3       = "s3"
)

// Open builds the object store selected by cfg.BlobBackend. The returned
// close func releases any client the store owns.
func Open(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (repository.ObjectStore, func(), error) {
	noop := func() {}
	switch cfg.BlobBackend {
	case "", BackendPostgres:
		return pginfra.NewChunkStore(pool), noop, nil
	case BackendGCS:
		if cfg.GCSBucket == "" {
			return nil, noop, fmt.Errorf("objectstore: GCS_BUCKET is required for backend %q", BackendGCS)
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, fmt.Errorf("objectstore: gcs client: %w", err)
		}
		return NewGCSStore(client, cfg.GCSBucket), func() { _ = client.Close() }, nil
	case BackendS3:
		store, err := NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("objectstore: s3: %w", err)
		}
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("objectstore: unknown backend %q", cfg.BlobBackend)
	}
}
