package application

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

type profileFixture struct {
	svc      *ProfileService
	profiles *memProfiles
	blobs    *memBlobs
	objects  *memObjects
	cleanup  *recordingPublisher
}

func newProfileFixture() profileFixture {
	f := profileFixture{profiles: newMemProfiles(), blobs: newMemBlobs(), objects: newMemObjects(), cleanup: &recordingPublisher{}}
	blobSvc := NewBlobService(f.blobs, f.objects, helpers.NopLogger(), 1<<20, f.cleanup)
	f.svc = NewProfileService(f.profiles, blobSvc, helpers.NopLogger())
	return f
}

func strPtr(s string) *string { return &s }

func upload(owner string, key entity.DocKey, name, body string) UploadInput {
	return UploadInput{OwnerID: owner, Reader: strings.NewReader(body), Size: int64(len(body)),
		Filename: name, MimeType: "application/pdf", Field: key}
}

func TestGetOrCreateDefaults(t *testing.T) {
	f := newProfileFixture()

	p, err := f.svc.GetOrCreate(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, "en", p.Lang)
	assert.Empty(t, p.PharmacyName)
	assert.Len(t, p.Docs, 3)
}

func TestGetOrCreateConcurrentFirstAccess(t *testing.T) {
	f := newProfileFixture()
	const n = 32

	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.svc.GetOrCreate(context.Background(), "owner-1")
			if assert.NoError(t, err) {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1)
	assert.Equal(t, 1, f.profiles.inserts)
}

func TestPartialUpdate(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Update(ctx, "owner-1", entity.ProfilePatch{
		PharmacyName: strPtr("Green Cross"), Address: strPtr("1 Main St"), Phone: strPtr("111"),
	}))
	require.NoError(t, f.svc.Update(ctx, "owner-1", entity.ProfilePatch{Phone: strPtr("555")}))

	p, err := f.svc.GetOrCreate(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "555", p.Phone)
	assert.Equal(t, "Green Cross", p.PharmacyName)
	assert.Equal(t, "1 Main St", p.Address)
	assert.Equal(t, "en", p.Lang)
	assert.Empty(t, p.LicenseNumber)
}

func TestEmptyUpdateIsNoop(t *testing.T) {
	f := newProfileFixture()
	require.NoError(t, f.svc.Update(context.Background(), "owner-1", entity.ProfilePatch{}))
	assert.Equal(t, 1, f.profiles.inserts)
}

func TestSetDocRefInvalidKey(t *testing.T) {
	f := newProfileFixture()
	_, err := f.svc.SetDocRef(context.Background(), "owner-1", entity.DocKey("passport"), "x")
	assert.ErrorIs(t, err, ErrInvalidDocKey)

	_, err = f.svc.UploadDoc(context.Background(), upload("owner-1", "passport", "a.pdf", "x"))
	assert.ErrorIs(t, err, ErrInvalidDocKey)
	assert.Equal(t, 0, f.objects.count())
}

func TestUploadDocReplacesPrevious(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	first, err := f.svc.UploadDoc(ctx, upload("owner-1", entity.DocDrugLicense, "license.pdf", "v1"))
	require.NoError(t, err)
	second, err := f.svc.UploadDoc(ctx, upload("owner-1", entity.DocDrugLicense, "license.pdf", "v2"))
	require.NoError(t, err)
	f.svc.Blobs.Wait()

	p, err := f.svc.GetOrCreate(ctx, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, p.Docs[entity.DocDrugLicense])
	assert.Equal(t, second.ID, *p.Docs[entity.DocDrugLicense])

	_, _, err = f.svc.Blobs.Open(ctx, first.ID, "owner-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, rc, err := f.svc.Blobs.Open(ctx, second.ID, "owner-1")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(body))
	assert.Equal(t, 1, f.objects.count())
}

func TestUploadDocOtherKeysUntouched(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	lic, err := f.svc.UploadDoc(ctx, upload("owner-1", entity.DocDrugLicense, "license.pdf", "a"))
	require.NoError(t, err)
	_, err = f.svc.UploadDoc(ctx, upload("owner-1", entity.DocGSTCertificate, "gst.pdf", "b"))
	require.NoError(t, err)
	f.svc.Blobs.Wait()

	p, err := f.svc.GetOrCreate(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, lic.ID, *p.Docs[entity.DocDrugLicense])
	assert.NotNil(t, p.Docs[entity.DocGSTCertificate])
	assert.Nil(t, p.Docs[entity.DocPharmacistRegistration])
	assert.Equal(t, 2, f.objects.count())
}

func TestUploadDocDeleteFailureDoesNotBlock(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	first, err := f.svc.UploadDoc(ctx, upload("owner-1", entity.DocDrugLicense, "license.pdf", "v1"))
	require.NoError(t, err)

	f.objects.mu.Lock()
	f.objects.deleteErr = errBoom
	f.objects.mu.Unlock()

	_, err = f.svc.UploadDoc(ctx, upload("owner-1", entity.DocDrugLicense, "license.pdf", "v2"))
	require.NoError(t, err)
	f.svc.Blobs.Wait()

	jobs := f.cleanup.published()
	require.Len(t, jobs, 1)
	job, ok := jobs[0].(CleanupJob)
	require.True(t, ok)
	assert.Equal(t, first.ID, job.BlobID)
	assert.NotEmpty(t, job.ObjectKey)

	// Metadata is gone even though the bytes are still around.
	_, _, err = f.svc.Blobs.Open(ctx, first.ID, "owner-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadTooLarge(t *testing.T) {
	f := newProfileFixture()
	big := bytes.Repeat([]byte("x"), (1<<20)+1)

	_, err := f.svc.UploadDoc(context.Background(), UploadInput{OwnerID: "owner-1", Reader: bytes.NewReader(big),
		Size: int64(len(big)), Filename: "big.pdf", Field: entity.DocDrugLicense})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, f.objects.count())
}

func TestOpenChecksOwnership(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	b, err := f.svc.UploadDoc(ctx, upload("owner-1", entity.DocDrugLicense, "license.pdf", "v1"))
	require.NoError(t, err)

	_, _, err = f.svc.Blobs.Open(ctx, b.ID, "owner-2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.svc.Blobs.Open(ctx, "not-a-uuid", "owner-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoredFilename(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-license.pdf", StoredFilename(ts, "license.pdf"))
	assert.Equal(t, "1700000000123-license.pdf", StoredFilename(ts, "../../etc/license.pdf"))
	assert.Equal(t, "1700000000123-scan.png", StoredFilename(ts, `C:\Users\me\scan.png`))
	assert.Equal(t, "1700000000123-upload", StoredFilename(ts, ""))
}

func TestUploadRecordsMetadata(t *testing.T) {
	f := newProfileFixture()
	f.svc.Blobs.Now = func() time.Time { return time.UnixMilli(42) }

	b, err := f.svc.UploadDoc(context.Background(), UploadInput{OwnerID: "owner-1", Reader: strings.NewReader("hello"),
		Size: -1, Filename: "Cert.PDF", Field: entity.DocPharmacistRegistration})
	require.NoError(t, err)
	assert.Equal(t, "42-Cert.PDF", b.Filename)
	assert.Equal(t, "application/octet-stream", b.MimeType)
	assert.Equal(t, int64(5), b.Size)
	assert.Equal(t, entity.DocPharmacistRegistration, b.Field)
	assert.True(t, strings.HasPrefix(b.ObjectKey, "documents/owner-1/"))
	assert.True(t, strings.HasSuffix(b.ObjectKey, ".pdf"))
}
