package repository

import (
	"context"
	"io"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
)

// BlobRepository stores blob metadata.
type BlobRepository interface {
	Create(ctx context.Context, b *entity.Blob) error
	GetByID(ctx context.Context, id string) (*entity.Blob, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStore holds blob bytes. Implementations stream; they must not expose
// an object under key before Put has returned successfully.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete returns ErrNotFound when key does not exist.
	Delete(ctx context.Context, key string) error
}
