package ports

import (
	"context"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Publish(event domain.AuthEvent)
}
