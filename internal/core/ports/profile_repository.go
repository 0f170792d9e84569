package ports

import (
	"context"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// ProfileRepository persists the role-specific profile variants.
type ProfileRepository interface {
	// CreateEmployeeProfile returns domain.ErrProfileExists when the identity
	// already owns one and domain.ErrProfileRoleMismatch when it is not an employee.
	CreateEmployeeProfile(ctx context.Context, identityID int64, p *domain.EmployeeProfile) error
	CreateManagerProfile(ctx context.Context, identityID int64, p *domain.ManagerProfile) error
	// ProfileFor returns the variant matching identity.Role, or nil if none exists.
	ProfileFor(ctx context.Context, identity *domain.Identity) (domain.Profile, error)
}

// Repositories groups the stores that take part in a transaction.
type Repositories interface {
	Identities() IdentityRepository
	Profiles() ProfileRepository
}

// Transactor runs fn inside one storage transaction. The transaction commits
// when fn returns nil and rolls back otherwise, including on panic.
type Transactor interface {
	Repositories
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
