package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

// NewIdentity carries the fields needed to create an identity.
// IsStaff and IsSuperuser are nil when the caller did not set them.
type NewIdentity struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        domain.Role
	IsStaff     *bool
	IsSuperuser *bool
}

// CredentialStore creates and authenticates identities on top of an
// IdentityRepository. Passwords only ever leave it hashed.
type CredentialStore struct {
	repo   ports.IdentityRepository
	hasher PasswordHasher
	now    func() time.Time

	dummy *dummyHash
}

// dummyHash is compared against when an email is unknown, so a miss costs
// the same as a wrong password.
type dummyHash struct {
	once sync.Once
	hash string
}

func NewCredentialStore(repo ports.IdentityRepository, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{
		repo:   repo,
		hasher: hasher,
		now:    func() time.Time { return time.Now().UTC() },
		dummy:  &dummyHash{},
	}
}

// With returns a copy of the store bound to repo, typically a repository
// scoped to a transaction.
func (s *CredentialStore) With(repo ports.IdentityRepository) *CredentialStore {
	c := *s
	c.repo = repo
	return &c
}

// Create normalises the email, hashes the password and persists a new identity.
func (s *CredentialStore) Create(ctx context.Context, in NewIdentity) (*domain.Identity, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		verr := domain.NewValidationError()
		verr.Add("email", "this field is required")
		return nil, verr
	}

	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		verr := domain.NewValidationError()
		verr.Add("role", fmt.Sprintf("%q is not a valid choice", role))
		return nil, verr
	}

	// The validator counts runes; bcrypt counts bytes.
	if len(in.Password) > domain.MaxPasswordBytes {
		verr := domain.NewValidationError()
		verr.Add("password", fmt.Sprintf("ensure this field has no more than %d bytes", domain.MaxPasswordBytes))
		return nil, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &domain.Identity{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		DateJoined:   s.now(),
		IsActive:     true,
		IsStaff:      in.IsStaff != nil && *in.IsStaff,
		IsSuperuser:  in.IsSuperuser != nil && *in.IsSuperuser,
	}
	return s.repo.Create(ctx, identity)
}

// CreateSuperuser creates an administrative identity. Staff and superuser
// flags default to true and the role defaults to manager.
func (s *CredentialStore) CreateSuperuser(ctx context.Context, in NewIdentity) (*domain.Identity, error) {
	yes := true
	if in.IsStaff == nil {
		in.IsStaff = &yes
	}
	if in.IsSuperuser == nil {
		in.IsSuperuser = &yes
	}
	if in.Role == "" {
		in.Role = domain.RoleManager
	}

	verr := domain.NewValidationError()
	if !*in.IsStaff {
		verr.Add("is_staff", "superuser must have is_staff=true")
	}
	if !*in.IsSuperuser {
		verr.Add("is_superuser", "superuser must have is_superuser=true")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	return s.Create(ctx, in)
}

// Authenticate returns the identity owning email if password matches and the
// account is active. Every credential failure is domain.ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		_ = s.hasher.Compare(s.dummyHash(), password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.hasher.Compare(identity.PasswordHash, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !identity.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return identity, nil
}

// FindByEmail looks an identity up by its normalised email.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
}

func (s *CredentialStore) dummyHash() string {
	s.dummy.once.Do(func() {
		s.dummy.hash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummy.hash
}
