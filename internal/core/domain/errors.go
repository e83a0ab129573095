package domain

import "errors"

// Sentinel errors form the failure taxonomy for the whole service. Each
// public operation maps a failure condition to exactly one of these; the API
// layer translates them to HTTP status codes in a single place.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrCounterNotFound    = errors.New("counter not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
