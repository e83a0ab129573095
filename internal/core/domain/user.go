package domain

import (
	"strings"
	"time"
)

// Roles are stored and compared in lowercase. NormalizeRole is the single
// entry point where free-form role input becomes canonical.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// NormalizeRole lowercases a role string and reports whether it names a
// known role.
func NormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	switch normalized {
	case RoleAdmin, RoleStudent:
		return normalized, true
	}
	return "", false
}

// User models a principal: an account that can authenticate and hold a role.
// Usernames are case-sensitive and immutable; at most one non-deleted user
// exists per username. Users are never physically removed (soft delete).
type User struct {
	ID                    string    `json:"id,omitempty"`
	Username              string    `json:"username"`
	Name                  string    `json:"name,omitempty"`
	Email                 string    `json:"email,omitempty"`
	PasswordHash          string    `json:"-"`
	TemporaryPasswordHash string    `json:"-"`
	Role                  string    `json:"role"`
	Active                bool      `json:"active"`
	Deleted               bool      `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
