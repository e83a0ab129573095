package ports

import (
	"context"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
)

// EnrollmentInput is a single student to provision.
type EnrollmentInput struct {
	FirstName string
	Email     string
}

// Credential is the one-time result of provisioning a student account. The
// plaintext password is returned once and never stored.
type Credential struct {
	StudentID string
	Password  string
}

// EnrollmentService provisions student accounts with allocator-derived
// identifiers and generated credentials.
type EnrollmentService interface {
	Enroll(ctx context.Context, in EnrollmentInput) (*Credential, error)
	// BulkEnroll processes entries strictly sequentially and returns
	// credentials in input order. The operation is not atomic across
	// entries: on failure, already-created accounts and consumed counter
	// values stay applied, remaining entries are aborted, and the
	// successfully created prefix is returned alongside the error.
	BulkEnroll(ctx context.Context, entries []EnrollmentInput) ([]Credential, error)
	// FindStudent looks up an enrolled student by the derived identifier.
	// This is also the reconcile path after a partially applied bulk call.
	FindStudent(ctx context.Context, studentID string) (*domain.User, error)
}
