package sqldb

import (
	"time"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

type identityModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	Role         string    `gorm:"size:20;not null;index"`
	DateJoined   time.Time `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	IsStaff      bool      `gorm:"not null"`
	IsSuperuser  bool      `gorm:"not null"`
}

func (identityModel) TableName() string { return "identities" }

// employeeProfileModel is keyed by the owning identity; the belongs-to
// association exists only to emit the cascading foreign key.
type employeeProfileModel struct {
	IdentityID   int64          `gorm:"primaryKey;autoIncrement:false"`
	Identity     *identityModel `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE"`
	Department   string         `gorm:"size:100;not null"`
	Position     string         `gorm:"size:100;not null"`
	LeaveBalance int            `gorm:"not null"`
}

func (employeeProfileModel) TableName() string { return "employee_profiles" }

type managerProfileModel struct {
	IdentityID        int64          `gorm:"primaryKey;autoIncrement:false"`
	Identity          *identityModel `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE"`
	ManagedDepartment string         `gorm:"size:100;not null"`
}

func (managerProfileModel) TableName() string { return "manager_profiles" }

func toIdentityModel(i *domain.Identity) *identityModel {
	return &identityModel{
		ID:           i.ID,
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Role:         string(i.Role),
		DateJoined:   i.DateJoined,
		IsActive:     i.IsActive,
		IsStaff:      i.IsStaff,
		IsSuperuser:  i.IsSuperuser,
	}
}

func (m *identityModel) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         domain.Role(m.Role),
		DateJoined:   m.DateJoined.UTC(),
		IsActive:     m.IsActive,
		IsStaff:      m.IsStaff,
		IsSuperuser:  m.IsSuperuser,
	}
}
