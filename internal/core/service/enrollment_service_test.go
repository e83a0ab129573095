package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

// stubCounterRepo issues post-increment values from an atomic counter,
// mirroring the storage-level guarantee of the real allocator.
type stubCounterRepo struct {
	value   int64
	missing bool
}

func (r *stubCounterRepo) Next(_ context.Context, name string) (int64, error) {
	if r.missing {
		return 0, domain.ErrCounterNotFound
	}
	return atomic.AddInt64(&r.value, 1), nil
}

func (r *stubCounterRepo) Ensure(_ context.Context, _ string, start int64) error {
	atomic.CompareAndSwapInt64(&r.value, 0, start)
	return nil
}

func newEnrollSvc(repo *stubUserRepo, counters *stubCounterRepo) (*EnrollmentService, *stubAuditor) {
	audit := &stubAuditor{}
	return NewEnrollmentService(repo, counters, audit, zerolog.Nop()), audit
}

func TestEnrollmentService_BulkEnroll_SequentialIDs(t *testing.T) {
	repo := newStubUserRepo()
	counters := &stubCounterRepo{value: 5}
	svc, audit := newEnrollSvc(repo, counters)

	creds, err := svc.BulkEnroll(context.Background(), []ports.EnrollmentInput{
		{FirstName: "A", Email: "a@x.com"},
		{FirstName: "B", Email: "b@x.com"},
	})
	if err != nil {
		t.Fatalf("BulkEnroll returned error: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(creds))
	}

	year := time.Now().UTC().Year()
	if creds[0].StudentID != domain.FormatStudentID(year, 6) {
		t.Fatalf("expected first id to embed 6, got %s", creds[0].StudentID)
	}
	if creds[1].StudentID != domain.FormatStudentID(year, 7) {
		t.Fatalf("expected second id to embed 7, got %s", creds[1].StudentID)
	}
	if creds[0].Password == creds[1].Password {
		t.Fatalf("expected distinct random passwords")
	}

	// Both principals are persisted and can authenticate with the returned
	// password.
	for _, cred := range creds {
		user, err := repo.FindActiveByUsername(context.Background(), cred.StudentID)
		if err != nil {
			t.Fatalf("student %s not persisted: %v", cred.StudentID, err)
		}
		if user.Role != domain.RoleStudent {
			t.Fatalf("expected student role, got %s", user.Role)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cred.Password)); err != nil {
			t.Fatalf("stored hash does not match returned password: %v", err)
		}
	}

	if got := audit.actions(); len(got) != 2 {
		t.Fatalf("expected 2 audit events, got %v", got)
	}
}

func TestEnrollmentService_BulkEnroll_PartialFailureKeepsPrefix(t *testing.T) {
	repo := newStubUserRepo()
	repo.failAfter = 1
	counters := &stubCounterRepo{}
	svc, _ := newEnrollSvc(repo, counters)

	creds, err := svc.BulkEnroll(context.Background(), []ports.EnrollmentInput{
		{FirstName: "A", Email: "a@x.com"},
		{FirstName: "B", Email: "b@x.com"},
		{FirstName: "C", Email: "c@x.com"},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	// The prefix created before the failure is returned, not rolled back.
	if len(creds) != 1 {
		t.Fatalf("expected 1 created credential, got %d", len(creds))
	}
	if _, findErr := repo.FindActiveByUsername(context.Background(), creds[0].StudentID); findErr != nil {
		t.Fatalf("prefix account missing after failed bulk call: %v", findErr)
	}
	// The aborted entries never consumed counter values.
	if got := atomic.LoadInt64(&counters.value); got != 2 {
		t.Fatalf("expected counter at 2 (one success, one failed persist), got %d", got)
	}
}

func TestEnrollmentService_Enroll_MissingCounter(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newEnrollSvc(repo, &stubCounterRepo{missing: true})

	_, err := svc.Enroll(context.Background(), ports.EnrollmentInput{FirstName: "A", Email: "a@x.com"})
	if !errors.Is(err, domain.ErrCounterNotFound) {
		t.Fatalf("expected ErrCounterNotFound, got %v", err)
	}
}

func TestEnrollmentService_Enroll_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newEnrollSvc(repo, &stubCounterRepo{})

	if _, err := svc.Enroll(context.Background(), ports.EnrollmentInput{Email: "a@x.com"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEnrollmentService_ConcurrentEnrollments_DistinctIDs(t *testing.T) {
	repo := newStubUserRepo()
	counters := &stubCounterRepo{}
	svc, _ := newEnrollSvc(repo, counters)

	const n = 32
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred, err := svc.Enroll(context.Background(), ports.EnrollmentInput{FirstName: "X", Email: "x@x.com"})
			if err != nil {
				t.Errorf("enroll failed: %v", err)
				return
			}
			ids <- cred.StudentID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate student id issued: %s", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
	if got := atomic.LoadInt64(&counters.value); got != n {
		t.Fatalf("expected counter at %d with no gaps, got %d", n, got)
	}
}

func TestEnrollmentService_FindStudent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newEnrollSvc(repo, &stubCounterRepo{})

	cred, err := svc.Enroll(context.Background(), ports.EnrollmentInput{FirstName: "Ana", Email: "ana@x.com"})
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	student, err := svc.FindStudent(context.Background(), cred.StudentID)
	if err != nil {
		t.Fatalf("FindStudent returned error: %v", err)
	}
	if student.Name != "Ana" || student.Email != "ana@x.com" {
		t.Fatalf("unexpected student: %+v", student)
	}

	if _, err := svc.FindStudent(context.Background(), "TPS2020999"); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestEnrollmentService_FindStudent_ExcludesNonStudents(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newEnrollSvc(repo, &stubCounterRepo{})

	now := time.Now().UTC()
	_ = repo.Create(context.Background(), &domain.User{
		Username: "admin1", Role: domain.RoleAdmin, Active: true, CreatedAt: now, UpdatedAt: now,
	})

	if _, err := svc.FindStudent(context.Background(), "admin1"); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound for admin account, got %v", err)
	}
}
