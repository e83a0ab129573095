package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that writes events to the audit
// trail repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit event. The audit trail is advisory: a
// write failure is logged and surfaced but never blocks the operation that
// produced the event, since recording runs on the async pipeline.
func (s *auditService) Record(ctx context.Context, in ports.AuditEventInput) error {
	event := &domain.AuditEvent{
		Username:  in.Username,
		Action:    in.Action,
		Detail:    in.Detail,
		Timestamp: in.Timestamp,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		s.log.Warn().Err(err).
			Str("username", in.Username).
			Str("action", in.Action).
			Msg("failed to persist audit event")
		return err
	}
	return nil
}
