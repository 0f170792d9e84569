package ports

import (
	"context"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// ListIdentitiesFilter carries the admin browser query parameters.
type ListIdentitiesFilter struct {
	Role     string // optional: "employee" or "manager"
	IsActive *bool  // optional
	Search   string // optional: partial match on email, first_name or last_name
	Page     int    // 1-based
	Limit    int
}

// IdentityRepository persists identities. Implementations return
// domain.ErrEmailTaken on a unique-email violation and
// domain.ErrIdentityNotFound when a lookup misses.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)
	List(ctx context.Context, filter ListIdentitiesFilter) ([]*domain.Identity, int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
	// Delete removes the identity; its profile goes with it.
	Delete(ctx context.Context, id int64) error
}
