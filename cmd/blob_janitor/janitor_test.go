package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

type memBlobs map[string]*entity.Blob

func (m memBlobs) Create(_ context.Context, b *entity.Blob) error { m[b.ID] = b; return nil }

func (m memBlobs) GetByID(_ context.Context, id string) (*entity.Blob, error) {
	b, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (m memBlobs) Delete(_ context.Context, id string) error {
	if _, ok := m[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m, id)
	return nil
}

type memObjects struct {
	keys map[string]bool
	err  error
}

func (m *memObjects) Put(context.Context, string, io.Reader, int64, string) error { return nil }

func (m *memObjects) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, repository.ErrNotFound
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	if !m.keys[key] {
		return repository.ErrNotFound
	}
	delete(m.keys, key)
	return nil
}

func job(t *testing.T, j application.CleanupJob) []byte {
	t.Helper()
	b, err := json.Marshal(j)
	require.NoError(t, err)
	return b
}

func TestJanitorRemovesLeftovers(t *testing.T) {
	blobs := memBlobs{"b1": {ID: "b1", ObjectKey: "documents/u1/b1.pdf"}}
	objects := &memObjects{keys: map[string]bool{"documents/u1/b1.pdf": true, "documents/u1/b2.pdf": true}}
	j := &janitor{Blobs: blobs, Objects: objects, Logger: helpers.NopLogger()}
	ctx := context.Background()

	require.NoError(t, j.Handle(ctx, job(t, application.CleanupJob{BlobID: "b1"})))
	assert.Empty(t, blobs)
	assert.False(t, objects.keys["documents/u1/b1.pdf"])

	// Metadata already gone; the key from the job is used.
	require.NoError(t, j.Handle(ctx, job(t, application.CleanupJob{BlobID: "b2", ObjectKey: "documents/u1/b2.pdf"})))
	assert.Empty(t, objects.keys)

	// Nothing left: still acked.
	require.NoError(t, j.Handle(ctx, job(t, application.CleanupJob{BlobID: "b2", ObjectKey: "documents/u1/b2.pdf"})))
}

func TestJanitorDropsFailures(t *testing.T) {
	objects := &memObjects{keys: map[string]bool{}, err: errors.New("s3 503")}
	j := &janitor{Blobs: memBlobs{}, Objects: objects, Logger: helpers.NopLogger()}
	ctx := context.Background()

	err := j.Handle(ctx, job(t, application.CleanupJob{ObjectKey: "documents/u1/b3.pdf"}))
	assert.ErrorIs(t, err, helpers.ErrDrop)
	assert.ErrorIs(t, j.Handle(ctx, []byte("not json")), helpers.ErrDrop)
}
