package ports

import (
	"context"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
)

// SignupInput carries the fields required to create a principal.
type SignupInput struct {
	Username string
	Password string
	Email    string
	Name     string
	Role     string
}

// AuthService implements credential verification, token issuance, user
// listing, and the password reset flow.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// Login verifies credentials against the primary password hash and,
	// when present, the temporary hash set by a reset. On success it
	// returns a signed bearer token alongside the user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// ResetPassword issues a temporary credential and returns its
	// plaintext exactly once; only the hash is stored.
	ResetPassword(ctx context.Context, username string) (string, error)
}
