package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

// EnrollmentService provisions student accounts: one counter allocation,
// one generated credential, one persisted principal per entry.
type EnrollmentService struct {
	users    ports.UserRepository
	counters ports.CounterRepository
	audit    Auditor
	log      zerolog.Logger
}

func NewEnrollmentService(users ports.UserRepository, counters ports.CounterRepository, audit Auditor, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{users: users, counters: counters, audit: audit, log: log}
}

// Enroll provisions a single student account.
func (s *EnrollmentService) Enroll(ctx context.Context, in ports.EnrollmentInput) (*ports.Credential, error) {
	cred, err := s.enrollOne(ctx, in)
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// BulkEnroll provisions accounts strictly sequentially within this request.
// Entries are never parallelized, so counter values land in input order.
// There is no rollback: a failure aborts the remaining entries and returns
// the successfully created prefix together with the error, leaving created
// accounts and consumed counter values in place. Callers reconcile a failed
// call by identifier lookup.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, entries []ports.EnrollmentInput) ([]ports.Credential, error) {
	creds := make([]ports.Credential, 0, len(entries))
	for i, entry := range entries {
		cred, err := s.enrollOne(ctx, entry)
		if err != nil {
			s.log.Error().Err(err).
				Int("entry", i).
				Int("created", len(creds)).
				Msg("bulk enrollment aborted")
			return creds, fmt.Errorf("enroll entry %d: %w", i, err)
		}
		creds = append(creds, *cred)
	}
	return creds, nil
}

// FindStudent looks up an enrolled student by the derived identifier.
func (s *EnrollmentService) FindStudent(ctx context.Context, studentID string) (*domain.User, error) {
	user, err := s.users.FindActiveByUsername(ctx, studentID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	if user.Role != domain.RoleStudent {
		return nil, domain.ErrStudentNotFound
	}
	return user, nil
}

func (s *EnrollmentService) enrollOne(ctx context.Context, in ports.EnrollmentInput) (*ports.Credential, error) {
	if in.FirstName == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}

	value, err := s.counters.Next(ctx, domain.CounterStudentID)
	if err != nil {
		return nil, fmt.Errorf("allocate student id: %w", err)
	}

	now := time.Now().UTC()
	studentID := domain.FormatStudentID(now.Year(), value)

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     studentID,
		Name:         in.FirstName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("persist student %s: %w", studentID, err)
	}

	s.audit.Enqueue(ports.AuditEventInput{
		Username:  studentID,
		Action:    domain.AuditStudentEnrolled,
		Detail:    "email=" + in.Email,
		Timestamp: now,
	})
	s.log.Info().Str("student_id", studentID).Msg("student enrolled")

	return &ports.Credential{StudentID: studentID, Password: password}, nil
}
