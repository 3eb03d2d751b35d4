package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	repo "github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

type ProfileService struct {
	Profiles repo.ProfileRepository
	Blobs    *BlobService
	Logger   *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, blobs *BlobService, logger *logrus.Logger) *ProfileService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &ProfileService{Profiles: profiles, Blobs: blobs, Logger: logger}
}

// GetOrCreate returns the owner's profile, creating it with defaults on first access.
func (s *ProfileService) GetOrCreate(ctx context.Context, ownerID string) (*entity.Profile, error) {
	p, err := s.Profiles.Ensure(ctx, ownerID)
	if err != nil {
		return nil, storageErr("ensure profile", err)
	}
	return p, nil
}

// Update writes only the fields present in patch.
func (s *ProfileService) Update(ctx context.Context, ownerID string, patch entity.ProfilePatch) error {
	if _, err := s.GetOrCreate(ctx, ownerID); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	if err := s.Profiles.Update(ctx, ownerID, patch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("update profile", err)
	}
	return nil
}

// SetDocRef points key at blobID and returns the previous reference.
func (s *ProfileService) SetDocRef(ctx context.Context, ownerID string, key entity.DocKey, blobID string) (*string, error) {
	if !key.Valid() {
		return nil, ErrInvalidDocKey
	}
	old, err := s.Profiles.SwapDoc(ctx, ownerID, key, blobID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("swap doc", err)
	}
	return old, nil
}

// UploadDoc stores a new document, swaps the profile reference once the bytes
// are written and removes the superseded blob in the background.
func (s *ProfileService) UploadDoc(ctx context.Context, in UploadInput) (*entity.Blob, error) {
	if !in.Field.Valid() {
		return nil, ErrInvalidDocKey
	}
	if _, err := s.GetOrCreate(ctx, in.OwnerID); err != nil {
		return nil, err
	}

	b, err := s.Blobs.Upload(ctx, in)
	if err != nil {
		return nil, err
	}

	old, err := s.SetDocRef(ctx, in.OwnerID, in.Field, b.ID)
	if err != nil {
		s.Blobs.DeleteAsync(b.ID)
		return nil, err
	}
	if old != nil && *old != b.ID {
		s.Logger.WithFields(logrus.Fields{"owner_id": in.OwnerID, "doc": in.Field, "old_blob_id": *old}).Debug("replacing document")
		s.Blobs.DeleteAsync(*old)
	}
	return b, nil
}
