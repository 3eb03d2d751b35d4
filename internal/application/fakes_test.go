package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	repo "github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/internal/infrastructure/redisstore"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	calls int
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repo.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memProfiles struct {
	mu      sync.Mutex
	byOwner map[string]*entity.Profile
	inserts int
	calls   int
}

func newMemProfiles() *memProfiles { return &memProfiles{byOwner: map[string]*entity.Profile{}} }

func cloneProfile(p *entity.Profile) *entity.Profile {
	cp := *p
	cp.Docs = entity.NewDocs()
	for k, v := range p.Docs {
		if v != nil {
			id := *v
			cp.Docs[k] = &id
		}
	}
	return &cp
}

func (m *memProfiles) Ensure(_ context.Context, ownerID string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.byOwner[ownerID]
	if !ok {
		m.inserts++
		p = &entity.Profile{ID: uuid.NewString(), OwnerID: ownerID, Lang: entity.DefaultLang, Docs: entity.NewDocs(),
			CreatedAt: time.Now(), UpdatedAt: time.Now()}
		m.byOwner[ownerID] = p
	}
	return cloneProfile(p), nil
}

func (m *memProfiles) Update(_ context.Context, ownerID string, patch entity.ProfilePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.byOwner[ownerID]
	if !ok {
		return repo.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.PharmacyName, patch.PharmacyName)
	set(&p.LicenseNumber, patch.LicenseNumber)
	set(&p.Phone, patch.Phone)
	set(&p.Address, patch.Address)
	set(&p.Lang, patch.Lang)
	p.UpdatedAt = time.Now()
	return nil
}

func (m *memProfiles) SwapDoc(_ context.Context, ownerID string, key entity.DocKey, blobID string) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.byOwner[ownerID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	old := p.Docs[key]
	id := blobID
	p.Docs[key] = &id
	return old, nil
}

type memBlobs struct {
	mu   sync.Mutex
	byID map[string]*entity.Blob
}

func newMemBlobs() *memBlobs { return &memBlobs{byID: map[string]*entity.Blob{}} }

func (m *memBlobs) Create(_ context.Context, b *entity.Blob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.CreatedAt = time.Now()
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBlobs) GetByID(_ context.Context, id string) (*entity.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBlobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memObjects struct {
	mu        sync.Mutex
	data      map[string][]byte
	deleteErr error
}

func newMemObjects() *memObjects { return &memObjects{data: map[string][]byte{}} }

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.data[key]; !ok {
		return repo.ErrNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *memObjects) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

func (p *recordingPublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.jobs...)
}

var errBoom = errors.New("boom")

func newTestSessions(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionManager(redisstore.NewSessionStore(rdb), helpers.NewSessionSigner("test-secret", SessionTTL)), mr
}
