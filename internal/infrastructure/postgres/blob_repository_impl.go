package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
)

type BlobRepository struct {
	pool *pgxpool.Pool
}

func NewBlobRepository(pool *pgxpool.Pool) *BlobRepository {
	return &BlobRepository{pool: pool}
}

func (r *BlobRepository) Create(ctx context.Context, b *entity.Blob) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blobs (id, owner_id, filename, mime_type, field, size, object_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, b.ID, b.OwnerID, b.Filename, b.MimeType, string(b.Field), b.Size, b.ObjectKey)
	return row.Scan(&b.CreatedAt)
}

func (r *BlobRepository) GetByID(ctx context.Context, id string) (*entity.Blob, error) {
	b := &entity.Blob{}
	var field string
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, filename, mime_type, field, size, object_key, created_at
		FROM blobs
		WHERE id = $1
	`, id)
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Filename, &b.MimeType, &field, &b.Size, &b.ObjectKey, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	b.Field = entity.DocKey(field)
	return b, nil
}

func (r *BlobRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM blobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BlobRepository = (*BlobRepository)(nil)
