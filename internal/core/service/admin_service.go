package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AdminService is a thin record browser over identities and their profiles.
// It performs no validation beyond existence checks.
type AdminService struct {
	store ports.Repositories
	log   zerolog.Logger
}

func NewAdminService(store ports.Repositories, log zerolog.Logger) *AdminService {
	return &AdminService{store: store, log: log}
}

// ListUsers returns a page of identities ordered by email.
func (s *AdminService) ListUsers(ctx context.Context, filter ports.ListIdentitiesFilter) (*ports.ListIdentitiesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.store.Identities().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListIdentitiesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUser returns the identity with the profile that matches its role inlined.
func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.Identity, error) {
	identity, err := s.store.Identities().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.Profiles().ProfileFor(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	identity.Profile = profile
	return identity, nil
}

// SetActive toggles login eligibility.
func (s *AdminService) SetActive(ctx context.Context, id int64, active bool) (*domain.Identity, error) {
	if err := s.store.Identities().SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.log.Info().Int64("identity_id", id).Bool("active", active).Msg("account activation changed")
	return s.GetUser(ctx, id)
}

// DeleteUser removes an identity together with its profile.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.Identities().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("identity_id", id).Msg("account deleted")
	return nil
}
