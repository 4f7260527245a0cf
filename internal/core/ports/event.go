package ports

import (
	"context"

	"github.com/escolar/admin-console/internal/core/domain"
)

// AuditRecorder stores an audit event for later delivery.
type AuditRecorder interface {
	Record(ctx context.Context, evt domain.AuditEvent) error
}

// AuditPublisher delivers an audit event to the message broker.
type AuditPublisher interface {
	PublishAuditEvent(ctx context.Context, evt domain.AuditEvent) error
}
