package postgres

import (
	"context"
	"errors"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pharmadocs/internal/domain/repository"
)

// ChunkSize matches the GridFS default of 255 KiB.
const ChunkSize = 255 * 1024

// ChunkStore keeps object bytes in blob_chunks rows. An object becomes
// visible only when the transaction carrying all its chunks commits.
type ChunkStore struct {
	pool *pgxpool.Pool
}

func NewChunkStore(pool *pgxpool.Pool) *ChunkStore {
	return &ChunkStore{pool: pool}
}

func (s *ChunkStore) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO blob_objects (object_key, size, content_type) VALUES ($1, 0, $2)
	`, key, contentType); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}

	buf := make([]byte, ChunkSize)
	var total int64
	for n := 0; ; n++ {
		read, rerr := io.ReadFull(r, buf)
		if read > 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO blob_chunks (object_key, n, data) VALUES ($1, $2, $3)
			`, key, n, buf[:read]); err != nil {
				return err
			}
			total += int64(read)
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE blob_objects SET size = $2 WHERE object_key = $1`, key, total); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *ChunkStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM blob_objects WHERE object_key = $1)
	`, key).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &chunkReader{ctx: ctx, pool: s.pool, key: key}, nil
}

func (s *ChunkStore) Delete(ctx context.Context, key string) error {
	res, err := s.pool.Exec(ctx, `DELETE FROM blob_objects WHERE object_key = $1`, key)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// chunkReader fetches one chunk per round trip so large objects are never
// fully resident in memory.
type chunkReader struct {
	ctx  context.Context
	pool *pgxpool.Pool
	key  string
	next int
	buf  []byte
	done bool
}

func (c *chunkReader) Read(p []byte) (int, error) {
	for len(c.buf) == 0 {
		if c.done {
			return 0, io.EOF
		}
		var data []byte
		err := c.pool.QueryRow(c.ctx, `
			SELECT data FROM blob_chunks WHERE object_key = $1 AND n = $2
		`, c.key, c.next).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			c.done = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}
		c.next++
		c.buf = data
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *chunkReader) Close() error {
	c.done = true
	c.buf = nil
	return nil
}

var _ repository.ObjectStore = (*ChunkStore)(nil)
