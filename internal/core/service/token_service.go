package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// TokenService mints and verifies HS256-signed bearer tokens carrying
// principal identity and role.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Mint signs a token for the given principal. The role is normalized before
// it is embedded so that every later comparison sees the canonical form.
func (s *TokenService) Mint(username, role string) (string, error) {
	normalized, ok := domain.NormalizeRole(role)
	if !ok {
		return "", domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  username,
		"role": normalized,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token. It returns domain.ErrTokenExpired
// when the token is past its expiry horizon and domain.ErrTokenInvalid for
// any other signature or format failure, so callers can give different
// client guidance (re-login vs malformed request).
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	username, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if username == "" || role == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.Claims{Username: username, Role: role}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return out, nil
}
