package domain

import "time"

// Claims is the verified content of a bearer token. Tokens are ephemeral:
// signed at login, self-validating, and implicitly destroyed at expiry.
type Claims struct {
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
