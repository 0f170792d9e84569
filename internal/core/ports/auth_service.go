package ports

import (
	"context"
	"time"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// RegisterInput is the provisioning payload.
type RegisterInput struct {
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"required,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Role      string `json:"role"       validate:"omitempty,oneof=employee manager"`

	EmployeeProfile *EmployeeProfileInput `json:"employee_profile" validate:"-"`
	ManagerProfile  *ManagerProfileInput  `json:"manager_profile"  validate:"-"`
}

// EmployeeProfileInput is the nested employee payload.
type EmployeeProfileInput struct {
	Department   string `json:"department"    validate:"required,max=100"`
	Position     string `json:"position"      validate:"required,max=100"`
	LeaveBalance *int   `json:"leave_balance" validate:"omitempty"`
}

// ManagerProfileInput is the nested manager payload.
type ManagerProfileInput struct {
	ManagedDepartment string `json:"managed_department" validate:"required,max=100"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult pairs an identity with a freshly issued token.
type AuthResult struct {
	Token    string
	Identity *domain.Identity
}

// AccountService is the provisioning and session use-case boundary.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, claims TokenClaims) error
	CurrentUser(ctx context.Context, identityID int64) (*domain.Identity, error)
}

// AdminService backs the administrative record browser.
type AdminService interface {
	ListUsers(ctx context.Context, filter ListIdentitiesFilter) (*ListIdentitiesResult, error)
	GetUser(ctx context.Context, id int64) (*domain.Identity, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Identity, error)
	DeleteUser(ctx context.Context, id int64) error
}

// ListIdentitiesResult is one page of the admin browser.
type ListIdentitiesResult struct {
	Items      []*domain.Identity
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TokenClaims is what a verified bearer token says about its holder.
type TokenClaims struct {
	IdentityID int64
	Email      string
	Role       domain.Role
	Staff      bool
	TokenID    string
	ExpiresAt  time.Time
}

// TokenIssuer mints bearer tokens for identities.
type TokenIssuer interface {
	Issue(identity *domain.Identity) (string, error)
}

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (TokenClaims, error)
}

// TokenRevocations tracks tokens invalidated before expiry.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
