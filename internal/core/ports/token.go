package ports

import "github.com/oxfordpsn/school-portal/internal/core/domain"

// TokenIssuer mints signed, time-bounded bearer tokens.
type TokenIssuer interface {
	Mint(username, role string) (string, error)
}

// TokenVerifier validates a bearer token and returns its claims. Failures
// are distinguishable: domain.ErrTokenExpired for a token past its horizon,
// domain.ErrTokenInvalid for any signature or format failure.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
