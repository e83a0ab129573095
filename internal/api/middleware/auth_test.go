package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

type stubVerifier struct {
	claims *domain.Claims
	err    error
}

func (v *stubVerifier) Verify(_ string) (*domain.Claims, error) {
	return v.claims, v.err
}

func runAuth(t *testing.T, verifier ports.TokenVerifier, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, Auth(verifier)(next)(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.Claims{
		Username:  "alice",
		Role:      domain.RoleAdmin,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}}

	called := false
	rec, err := runAuth(t, verifier, "Bearer some-token", func(c echo.Context) error {
		called = true
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("role") != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, err := runAuth(t, &stubVerifier{}, "", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "token required" {
		t.Fatalf("expected token-required message, got %v", he.Message)
	}
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	_, err := runAuth(t, &stubVerifier{}, "Token abc", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrTokenExpired}

	_, err := runAuth(t, verifier, "Bearer stale", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "token expired" {
		t.Fatalf("expected expiry to be distinguishable, got %v", he.Message)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrTokenInvalid}

	_, err := runAuth(t, verifier, "Bearer garbage", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "invalid token" {
		t.Fatalf("expected invalid-token message, got %v", he.Message)
	}
}
