package repository

import (
	"context"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
)

// ProfileRepository stores one profile per owner.
type ProfileRepository interface {
	// Ensure creates the owner's profile with defaults unless it exists and
	// returns the stored row. Safe under concurrent calls for the same owner.
	Ensure(ctx context.Context, ownerID string) (*entity.Profile, error)
	// Update applies the non-nil fields of patch.
	Update(ctx context.Context, ownerID string, patch entity.ProfilePatch) error
	// SwapDoc points key at blobID and returns the previous blob id, if any.
	SwapDoc(ctx context.Context, ownerID string, key entity.DocKey, blobID string) (*string, error)
}
