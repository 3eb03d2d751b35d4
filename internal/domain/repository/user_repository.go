package repository

import (
	"context"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
)

// UserRepository defines the interface for account credential storage.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. Returns ErrConflict when
	// the email is already taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
