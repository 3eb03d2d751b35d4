package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	repo "github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

// deleteTimeout bounds a background blob deletion.
const deleteTimeout = 30 * time.Second

// CleanupJob is queued when a superseded blob could not be removed inline.
type CleanupJob struct {
	BlobID    string `json:"blob_id"`
	ObjectKey string `json:"object_key"`
	Reason    string `json:"reason"`
}

type BlobService struct {
	Repo     repo.BlobRepository
	Objects  repo.ObjectStore
	Logger   *logrus.Logger
	MaxBytes int64
	// Cleanup is optional; failed deletions are published here for the janitor.
	Cleanup Publisher
	Now     func() time.Time

	pending sync.WaitGroup
}

func NewBlobService(blobs repo.BlobRepository, objects repo.ObjectStore, logger *logrus.Logger, maxBytes int64, cleanup Publisher) *BlobService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &BlobService{Repo: blobs, Objects: objects, Logger: logger, MaxBytes: maxBytes, Cleanup: cleanup, Now: time.Now}
}

// UploadInput describes an incoming file.
type UploadInput struct {
	OwnerID  string
	Reader   io.Reader
	Size     int64
	Filename string
	MimeType string
	Field    entity.DocKey
}

// StoredFilename prefixes the base name with a millisecond timestamp.
func StoredFilename(now time.Time, original string) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

func objectKey(ownerID, blobID, filename string) string {
	return path.Join("documents", ownerID, blobID+strings.ToLower(path.Ext(filename)))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Upload streams the file to the object store and records its metadata once
// the bytes are fully written.
func (s *BlobService) Upload(ctx context.Context, in UploadInput) (*entity.Blob, error) {
	if in.Reader == nil || in.OwnerID == "" {
		return nil, ErrInvalidInput
	}
	if s.MaxBytes > 0 && in.Size > s.MaxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxBytes)
	}
	mime := in.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	b := &entity.Blob{
		ID:       uuid.NewString(),
		OwnerID:  in.OwnerID,
		Filename: StoredFilename(s.Now(), in.Filename),
		MimeType: mime,
		Field:    in.Field,
	}
	b.ObjectKey = objectKey(in.OwnerID, b.ID, b.Filename)

	// A known size keeps the caller's reader as is, so seekable files stay
	// seekable for backends that hash the payload before sending it.
	body := in.Reader
	var cr *countingReader
	if in.Size < 0 {
		cr = &countingReader{r: in.Reader}
		body = cr
	}
	if err := s.Objects.Put(ctx, b.ObjectKey, body, in.Size, mime); err != nil {
		return nil, storageErr("put object", err)
	}
	b.Size = in.Size
	if cr != nil {
		b.Size = cr.n
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		// Metadata is missing, so nothing else can reference these bytes.
		if derr := s.Objects.Delete(ctx, b.ObjectKey); derr != nil && !errors.Is(derr, repo.ErrNotFound) {
			s.Logger.WithError(derr).WithField("object_key", b.ObjectKey).Warn("orphan object cleanup failed")
		}
		return nil, storageErr("create blob", err)
	}
	return b, nil
}

// Open returns the blob and a reader for its bytes. Blobs owned by another
// account are reported as not found.
func (s *BlobService) Open(ctx context.Context, id, ownerID string) (*entity.Blob, io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, ErrNotFound
	}
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, storageErr("get blob", err)
	}
	if b.OwnerID != ownerID {
		return nil, nil, ErrNotFound
	}
	rc, err := s.Objects.Get(ctx, b.ObjectKey)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, storageErr("get object", err)
	}
	return b, rc, nil
}

// Delete removes metadata first so the blob stops being downloadable, then the bytes.
func (s *BlobService) Delete(ctx context.Context, id string) error {
	_, err := s.delete(ctx, id)
	return err
}

// delete reports whether a cleanup job was already queued for the failure.
func (s *BlobService) delete(ctx context.Context, id string) (bool, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, storageErr("get blob", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return false, storageErr("delete blob", err)
	}
	if err := s.Objects.Delete(ctx, b.ObjectKey); err != nil && !errors.Is(err, repo.ErrNotFound) {
		s.queueCleanup(ctx, CleanupJob{BlobID: id, ObjectKey: b.ObjectKey, Reason: err.Error()})
		return true, storageErr("delete object", err)
	}
	return false, nil
}

// DeleteAsync removes a blob in the background. Failures are logged and
// handed to the cleanup queue; the caller never waits on them.
func (s *BlobService) DeleteAsync(id string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()
		queued, err := s.delete(ctx, id)
		if err == nil || errors.Is(err, ErrNotFound) {
			return
		}
		s.Logger.WithError(err).WithField("blob_id", id).Warn("background blob delete failed")
		if !queued {
			s.queueCleanup(ctx, CleanupJob{BlobID: id, Reason: err.Error()})
		}
	}()
}

// Wait blocks until background deletions finish.
func (s *BlobService) Wait() {
	s.pending.Wait()
}

func (s *BlobService) queueCleanup(ctx context.Context, job CleanupJob) {
	if s.Cleanup == nil {
		return
	}
	if err := s.Cleanup.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("blob_id", job.BlobID).Warn("failed to enqueue blob cleanup")
	}
}
