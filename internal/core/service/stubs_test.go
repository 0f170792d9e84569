package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

// testHasher keeps bcrypt but at the cheapest cost.
var testHasher = BcryptHasher{Cost: bcrypt.MinCost}

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type memState struct {
	nextID     int64
	identities map[int64]domain.Identity
	employees  map[int64]domain.EmployeeProfile
	managers   map[int64]domain.ManagerProfile
}

func (s memState) clone() memState {
	c := memState{
		nextID:     s.nextID,
		identities: make(map[int64]domain.Identity, len(s.identities)),
		employees:  make(map[int64]domain.EmployeeProfile, len(s.employees)),
		managers:   make(map[int64]domain.ManagerProfile, len(s.managers)),
	}
	for k, v := range s.identities {
		c.identities[k] = v
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.managers {
		c.managers[k] = v
	}
	return c
}

type stubStore struct {
	mu    sync.Mutex
	state memState

	profileErr error // if set, profile creation fails with this error
	txCount    int
}

func newStubStore() *stubStore {
	return &stubStore{state: memState{}.clone()}
}

func (s *stubStore) Identities() ports.IdentityRepository { return stubIdentities{s} }
func (s *stubStore) Profiles() ports.ProfileRepository    { return stubProfiles{s} }

// WithinTransaction restores the pre-transaction snapshot when fn fails.
func (s *stubStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	s.mu.Lock()
	snapshot := s.state.clone()
	s.txCount++
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *stubStore) identityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.identities)
}

func (s *stubStore) profileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.employees) + len(s.state.managers)
}

type stubIdentities struct{ s *stubStore }

func (r stubIdentities) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.identities {
		if existing.Email == identity.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.s.state.nextID++
	clone := *identity
	clone.ID = r.s.state.nextID
	clone.Profile = nil
	r.s.state.identities[clone.ID] = clone
	return &clone, nil
}

func (r stubIdentities) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.identities {
		if existing.Email == email {
			clone := existing
			return &clone, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r stubIdentities) FindByID(_ context.Context, id int64) (*domain.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.state.identities[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return &existing, nil
}

func (r stubIdentities) List(_ context.Context, f ports.ListIdentitiesFilter) ([]*domain.Identity, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Identity
	for _, existing := range r.s.state.identities {
		if f.Role != "" && string(existing.Role) != f.Role {
			continue
		}
		if f.Search != "" && !strings.Contains(existing.Email, f.Search) {
			continue
		}
		clone := existing
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r stubIdentities) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.state.identities[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	existing.IsActive = active
	r.s.state.identities[id] = existing
	return nil
}

func (r stubIdentities) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.identities[id]; !ok {
		return domain.ErrIdentityNotFound
	}
	delete(r.s.state.identities, id)
	delete(r.s.state.employees, id)
	delete(r.s.state.managers, id)
	return nil
}

type stubProfiles struct{ s *stubStore }

func (r stubProfiles) owner(id int64, want domain.Role) error {
	existing, ok := r.s.state.identities[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if existing.Role != want {
		return domain.ErrProfileRoleMismatch
	}
	return nil
}

func (r stubProfiles) CreateEmployeeProfile(_ context.Context, id int64, p *domain.EmployeeProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.profileErr != nil {
		return r.s.profileErr
	}
	if err := r.owner(id, domain.RoleEmployee); err != nil {
		return err
	}
	if _, ok := r.s.state.employees[id]; ok {
		return domain.ErrProfileExists
	}
	r.s.state.employees[id] = *p
	return nil
}

func (r stubProfiles) CreateManagerProfile(_ context.Context, id int64, p *domain.ManagerProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.profileErr != nil {
		return r.s.profileErr
	}
	if err := r.owner(id, domain.RoleManager); err != nil {
		return err
	}
	if _, ok := r.s.state.managers[id]; ok {
		return domain.ErrProfileExists
	}
	r.s.state.managers[id] = *p
	return nil
}

func (r stubProfiles) ProfileFor(_ context.Context, identity *domain.Identity) (domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	switch identity.Role {
	case domain.RoleEmployee:
		if p, ok := r.s.state.employees[identity.ID]; ok {
			return &p, nil
		}
	case domain.RoleManager:
		if p, ok := r.s.state.managers[identity.ID]; ok {
			return &p, nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Token, revocation and audit stubs
// ---------------------------------------------------------------------------

type stubIssuer struct {
	issued int
}

func (i *stubIssuer) Issue(identity *domain.Identity) (string, error) {
	i.issued++
	return "token-" + strconv.FormatInt(identity.ID, 10), nil
}

type stubRevocations struct {
	revoked map[string]bool
}

func (r *stubRevocations) Revoke(_ context.Context, id string, _ time.Time) error {
	if r.revoked == nil {
		r.revoked = make(map[string]bool)
	}
	r.revoked[id] = true
	return nil
}

func (r *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return r.revoked[id], nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *recordingAudit) Publish(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []domain.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Type)
	}
	return out
}
