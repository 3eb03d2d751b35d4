package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
)

type fakeObject struct {
	data        []byte
	contentType string
}

// fakeS3 implements just enough of the path-style S3 API for the store.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[key] = fakeObject{data: b, contentType: r.Header.Get("Content-Type")}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		obj, ok := f.objects[key]
		if !ok {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(obj.data)
		}
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) lookup(key string) (fakeObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj, ok
}

func setupS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]fakeObject{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), S3Options{
		Bucket:    "docs",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3StoreRoundTrip(t *testing.T) {
	store, fake := setupS3Store(t)
	ctx := context.Background()
	payload := []byte("%PDF-1.7 licence")

	require.NoError(t, store.Put(ctx, "s3/abc", bytes.NewReader(payload), int64(len(payload)), "application/pdf"))
	obj, ok := fake.lookup("docs/s3/abc")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", obj.contentType)

	rc, err := store.Get(ctx, "s3/abc")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, "s3/abc"))
	_, ok = fake.lookup("docs/s3/abc")
	assert.False(t, ok)
}

func TestS3StoreMissingKey(t *testing.T) {
	store, _ := setupS3Store(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "s3/missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "s3/missing"), repository.ErrNotFound)
}

// readOnly hides every method but Read, like a request body stream.
type readOnly struct{ r io.Reader }

func (r readOnly) Read(p []byte) (int, error) { return r.r.Read(p) }

func TestS3StorePutNonSeekable(t *testing.T) {
	store, fake := setupS3Store(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s3/stream", readOnly{strings.NewReader("streamed")}, -1, "text/plain"))
	obj, ok := fake.lookup("docs/s3/stream")
	require.True(t, ok)
	assert.Equal(t, "streamed", string(obj.data))
}

func TestBlobServiceOverS3(t *testing.T) {
	store, _ := setupS3Store(t)
	ctx := context.Background()
	svc := application.NewBlobService(newMemBlobs(), store, nil, 1<<20, nil)

	for _, size := range []int64{8, -1} {
		b, err := svc.Upload(ctx, application.UploadInput{
			OwnerID:  "owner-1",
			Reader:   readOnly{strings.NewReader("%PDF-1.7")},
			Size:     size,
			Filename: "license.pdf",
			MimeType: "application/pdf",
			Field:    entity.DocDrugLicense,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(8), b.Size)

		got, rc, err := svc.Open(ctx, b.ID, "owner-1")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "%PDF-1.7", string(data))
		assert.Equal(t, "application/pdf", got.MimeType)

		_, _, err = svc.Open(ctx, b.ID, "owner-2")
		assert.ErrorIs(t, err, application.ErrNotFound)
	}
}

type memBlobs struct {
	mu   sync.Mutex
	byID map[string]*entity.Blob
}

func newMemBlobs() *memBlobs { return &memBlobs{byID: map[string]*entity.Blob{}} }

func (m *memBlobs) Create(_ context.Context, b *entity.Blob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBlobs) GetByID(_ context.Context, id string) (*entity.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBlobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}
