package ports

import (
	"context"
	"time"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
)

// AuditEventInput is the DTO handed to the audit pipeline.
type AuditEventInput struct {
	Username  string
	Action    string
	Detail    string
	Timestamp time.Time
}

// AuditService persists audit events.
type AuditService interface {
	Record(ctx context.Context, event AuditEventInput) error
}

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
