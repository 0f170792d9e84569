package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
	"github.com/99minutos/staff-accounts/internal/pkg/validate"
)

// AccountService implements registration, login, logout and current-user lookup.
type AccountService struct {
	store       ports.Transactor
	credentials *CredentialStore
	tokens      ports.TokenIssuer
	revocations ports.TokenRevocations // nil disables revocation on logout
	audit       ports.AuditSink
	validator   *validate.Validator
	log         zerolog.Logger
	now         func() time.Time
}

func NewAccountService(
	store ports.Transactor,
	hasher PasswordHasher,
	tokens ports.TokenIssuer,
	revocations ports.TokenRevocations,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AccountService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &AccountService{
		store:       store,
		credentials: NewCredentialStore(store.Identities(), hasher),
		tokens:      tokens,
		revocations: revocations,
		audit:       audit,
		validator:   validate.New(),
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Register provisions an identity and, when a payload for its role was sent,
// the matching profile. Both writes share one transaction.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleEmployee
	}

	if err := s.validateRegistration(in, role); err != nil {
		return nil, err
	}

	profile := domain.NewProfile(role, profileDraft(in))

	var created *domain.Identity
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos ports.Repositories) error {
		identity, err := s.credentials.With(repos.Identities()).Create(ctx, NewIdentity{
			Email:     in.Email,
			Password:  in.Password,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Role:      role,
		})
		if err != nil {
			return err
		}

		if profile != nil {
			if err := createProfile(ctx, repos.Profiles(), identity.ID, profile); err != nil {
				return err
			}
		}
		identity.Profile = profile
		created = identity
		return nil
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, &domain.ProvisioningError{Err: err}
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(domain.EventRegistered, created.Email, created)
	s.log.Info().
		Int64("identity_id", created.ID).
		Str("role", string(created.Role)).
		Bool("with_profile", created.Profile != nil).
		Msg("account provisioned")

	return &ports.AuthResult{Token: token, Identity: created}, nil
}

// Login authenticates the credentials and issues a token. Unknown email,
// wrong password and inactive account are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	identity, err := s.credentials.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.publish(domain.EventLoginFailed, in.Email, nil)
		}
		return nil, err
	}

	profile, err := s.store.Profiles().ProfileFor(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	identity.Profile = profile

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(domain.EventLoginSucceeded, identity.Email, identity)
	return &ports.AuthResult{Token: token, Identity: identity}, nil
}

// Logout is stateless unless revocation is configured, in which case the
// token is remembered as revoked until it would have expired anyway.
func (s *AccountService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	if s.revocations != nil && claims.TokenID != "" {
		if err := s.revocations.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}

	s.audit.Publish(domain.AuthEvent{
		Type:       domain.EventLogout,
		Email:      claims.Email,
		IdentityID: claims.IdentityID,
		Role:       claims.Role,
		OccurredAt: s.now(),
	})
	return nil
}

// CurrentUser loads the identity a verified token points at. A deleted or
// deactivated account is reported as invalid credentials.
func (s *AccountService) CurrentUser(ctx context.Context, identityID int64) (*domain.Identity, error) {
	identity, err := s.store.Identities().FindByID(ctx, identityID)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !identity.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.store.Profiles().ProfileFor(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	identity.Profile = profile
	return identity, nil
}

// validateRegistration checks the top-level fields and the nested payload of
// the declared role only. A payload for the other role is not looked at.
func (s *AccountService) validateRegistration(in ports.RegisterInput, role domain.Role) error {
	verr := domain.NewValidationError()
	if err := s.validator.Collect(in, "", verr); err != nil {
		return err
	}

	switch {
	case role == domain.RoleEmployee && in.EmployeeProfile != nil:
		if err := s.validator.Collect(in.EmployeeProfile, "employee_profile", verr); err != nil {
			return err
		}
	case role == domain.RoleManager && in.ManagerProfile != nil:
		if err := s.validator.Collect(in.ManagerProfile, "manager_profile", verr); err != nil {
			return err
		}
	}
	return verr.ErrOrNil()
}

func (s *AccountService) publish(t domain.AuthEventType, email string, identity *domain.Identity) {
	ev := domain.AuthEvent{Type: t, Email: email, OccurredAt: s.now()}
	if identity != nil {
		ev.IdentityID = identity.ID
		ev.Role = identity.Role
	}
	s.audit.Publish(ev)
}

func profileDraft(in ports.RegisterInput) domain.ProfileDraft {
	var draft domain.ProfileDraft
	if in.EmployeeProfile != nil {
		draft.Employee = &domain.EmployeeProfileDraft{
			Department:   in.EmployeeProfile.Department,
			Position:     in.EmployeeProfile.Position,
			LeaveBalance: in.EmployeeProfile.LeaveBalance,
		}
	}
	if in.ManagerProfile != nil {
		draft.Manager = &domain.ManagerProfileDraft{
			ManagedDepartment: in.ManagerProfile.ManagedDepartment,
		}
	}
	return draft
}

func createProfile(ctx context.Context, repo ports.ProfileRepository, identityID int64, profile domain.Profile) error {
	switch p := profile.(type) {
	case *domain.EmployeeProfile:
		return repo.CreateEmployeeProfile(ctx, identityID, p)
	case *domain.ManagerProfile:
		return repo.CreateManagerProfile(ctx, identityID, p)
	}
	return fmt.Errorf("unknown profile variant %T", profile)
}

type discardAudit struct{}

func (discardAudit) Publish(domain.AuthEvent) {}
