package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// ProfileRepository implements ports.ProfileRepository with gorm.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateEmployeeProfile(ctx context.Context, identityID int64, p *domain.EmployeeProfile) error {
	if err := r.checkOwner(ctx, identityID, domain.RoleEmployee); err != nil {
		return err
	}
	m := &employeeProfileModel{
		IdentityID:   identityID,
		Department:   p.Department,
		Position:     p.Position,
		LeaveBalance: p.LeaveBalance,
	}
	return r.insert(ctx, m)
}

func (r *ProfileRepository) CreateManagerProfile(ctx context.Context, identityID int64, p *domain.ManagerProfile) error {
	if err := r.checkOwner(ctx, identityID, domain.RoleManager); err != nil {
		return err
	}
	m := &managerProfileModel{
		IdentityID:        identityID,
		ManagedDepartment: p.ManagedDepartment,
	}
	return r.insert(ctx, m)
}

// ProfileFor only looks in the table that matches the identity's role.
func (r *ProfileRepository) ProfileFor(ctx context.Context, identity *domain.Identity) (domain.Profile, error) {
	db := r.db.WithContext(ctx)

	switch identity.Role {
	case domain.RoleEmployee:
		var m employeeProfileModel
		if err := db.Where("identity_id = ?", identity.ID).Take(&m).Error; err != nil {
			return nil, notFoundAsNil(err)
		}
		return &domain.EmployeeProfile{
			Department:   m.Department,
			Position:     m.Position,
			LeaveBalance: m.LeaveBalance,
		}, nil
	case domain.RoleManager:
		var m managerProfileModel
		if err := db.Where("identity_id = ?", identity.ID).Take(&m).Error; err != nil {
			return nil, notFoundAsNil(err)
		}
		return &domain.ManagerProfile{ManagedDepartment: m.ManagedDepartment}, nil
	}
	return nil, nil
}

// checkOwner makes sure the identity exists and has the role the variant requires.
func (r *ProfileRepository) checkOwner(ctx context.Context, identityID int64, want domain.Role) error {
	var owner identityModel
	err := r.db.WithContext(ctx).Select("id", "role").Where("id = ?", identityID).Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrIdentityNotFound
	}
	if err != nil {
		return fmt.Errorf("find profile owner: %w", err)
	}
	if domain.Role(owner.Role) != want {
		return domain.ErrProfileRoleMismatch
	}
	return nil
}

func (r *ProfileRepository) insert(ctx context.Context, m any) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("find profile: %w", err)
}
