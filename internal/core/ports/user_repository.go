package ports

import (
	"context"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
)

// UserRepository defines persistence operations for principals.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrUserExists when an
	// active, non-deleted user with the same username already exists.
	Create(ctx context.Context, user *domain.User) error
	// FindActiveByUsername retrieves a user by exact username, excluding
	// deleted and inactive rows by construction.
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListActive returns all active, non-deleted users.
	ListActive(ctx context.Context) ([]*domain.User, error)
	// SetPassword overwrites the primary password hash of an existing,
	// active user. Idempotent.
	SetPassword(ctx context.Context, username, hash string) error
	// SetTemporaryPassword overwrites the temporary password hash of an
	// existing, active user without touching the primary hash. Idempotent.
	SetTemporaryPassword(ctx context.Context, username, hash string) error
}
