package domain

import "time"

// Audit actions recorded by the asynchronous audit pipeline.
const (
	AuditLoginSuccess    = "login_success"
	AuditLoginFailed     = "login_failed"
	AuditSignup          = "signup"
	AuditPasswordReset   = "password_reset"
	AuditStudentEnrolled = "student_enrolled"
)

// AuditEvent is a persisted record of a security-relevant action taken by or
// against a principal.
type AuditEvent struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
