package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

type stubEnrollmentService struct {
	enrollFn func(ctx context.Context, in ports.EnrollmentInput) (*ports.Credential, error)
	bulkFn   func(ctx context.Context, entries []ports.EnrollmentInput) ([]ports.Credential, error)
	findFn   func(ctx context.Context, studentID string) (*domain.User, error)
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, in ports.EnrollmentInput) (*ports.Credential, error) {
	return s.enrollFn(ctx, in)
}

func (s *stubEnrollmentService) BulkEnroll(ctx context.Context, entries []ports.EnrollmentInput) ([]ports.Credential, error) {
	return s.bulkFn(ctx, entries)
}

func (s *stubEnrollmentService) FindStudent(ctx context.Context, studentID string) (*domain.User, error) {
	return s.findFn(ctx, studentID)
}

func TestStudentHandler_Enroll_Success(t *testing.T) {
	stub := &stubEnrollmentService{
		enrollFn: func(_ context.Context, in ports.EnrollmentInput) (*ports.Credential, error) {
			if in.FirstName != "Ana" || in.Email != "ana@x.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.Credential{StudentID: "TPS2026006", Password: "p4ssw0rdAB"}, nil
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/students", `{"firstName":"Ana","email":"ana@x.com"}`)

	if err := h.Enroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["studentId"] != "TPS2026006" || resp["password"] != "p4ssw0rdAB" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestStudentHandler_Enroll_MissingFields(t *testing.T) {
	h := NewStudentHandler(&stubEnrollmentService{})

	c, _ := newJSONContext(t, http.MethodPost, "/students", `{"firstName":"Ana"}`)

	err := h.Enroll(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestStudentHandler_BulkEnroll_Success(t *testing.T) {
	stub := &stubEnrollmentService{
		bulkFn: func(_ context.Context, entries []ports.EnrollmentInput) ([]ports.Credential, error) {
			if len(entries) != 2 || entries[0].FirstName != "A" || entries[1].FirstName != "B" {
				t.Fatalf("unexpected entries: %+v", entries)
			}
			return []ports.Credential{
				{StudentID: "TPS2026006", Password: "one"},
				{StudentID: "TPS2026007", Password: "two"},
			}, nil
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/students/bulk",
		`{"students":[{"firstName":"A","email":"a@x.com"},{"firstName":"B","email":"b@x.com"}]}`)

	if err := h.BulkEnroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["studentId"] != "TPS2026006" || resp[1]["studentId"] != "TPS2026007" {
		t.Fatalf("expected credentials in input order, got %v", resp)
	}
}

func TestStudentHandler_BulkEnroll_PartialFailureReportsPrefix(t *testing.T) {
	stub := &stubEnrollmentService{
		bulkFn: func(_ context.Context, _ []ports.EnrollmentInput) ([]ports.Credential, error) {
			return []ports.Credential{{StudentID: "TPS2026006", Password: "one"}},
				fmt.Errorf("enroll entry 1: %w", errors.New("storage unavailable"))
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/students/bulk",
		`{"students":[{"firstName":"A","email":"a@x.com"},{"firstName":"B","email":"b@x.com"}]}`)

	if err := h.BulkEnroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["created"] != float64(1) {
		t.Fatalf("expected created=1 in failure envelope, got %v", resp)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message in failure envelope")
	}
}

func TestStudentHandler_BulkEnroll_DuplicateMapsToConflict(t *testing.T) {
	stub := &stubEnrollmentService{
		bulkFn: func(_ context.Context, _ []ports.EnrollmentInput) ([]ports.Credential, error) {
			return nil, fmt.Errorf("enroll entry 0: %w", domain.ErrUserExists)
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/students/bulk",
		`{"students":[{"firstName":"A","email":"a@x.com"}]}`)

	if err := h.BulkEnroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestStudentHandler_BulkEnroll_EmptyList(t *testing.T) {
	h := NewStudentHandler(&stubEnrollmentService{})

	c, _ := newJSONContext(t, http.MethodPost, "/students/bulk", `{"students":[]}`)

	err := h.BulkEnroll(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestStudentHandler_GetStudent(t *testing.T) {
	stub := &stubEnrollmentService{
		findFn: func(_ context.Context, studentID string) (*domain.User, error) {
			if studentID != "TPS2026006" {
				return nil, domain.ErrStudentNotFound
			}
			return &domain.User{Username: "TPS2026006", Name: "Ana", Email: "ana@x.com", Role: domain.RoleStudent}, nil
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/students/TPS2026006", "")
	c.SetPath("/students/:studentId")
	c.SetParamNames("studentId")
	c.SetParamValues("TPS2026006")

	if err := h.GetStudent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["studentId"] != "TPS2026006" || resp["firstName"] != "Ana" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestStudentHandler_GetStudent_NotFound(t *testing.T) {
	stub := &stubEnrollmentService{
		findFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrStudentNotFound
		},
	}
	h := NewStudentHandler(stub)

	c, _ := newJSONContext(t, http.MethodGet, "/students/TPS2020999", "")
	c.SetPath("/students/:studentId")
	c.SetParamNames("studentId")
	c.SetParamValues("TPS2020999")

	if err := h.GetStudent(c); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}
