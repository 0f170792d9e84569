package domain

import (
	"strings"
	"time"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Role decides which profile variant an identity may own.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// Identity is the authenticatable account record.
type Identity struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	DateJoined   time.Time `json:"date_joined"`
	IsActive     bool      `json:"-"`
	IsStaff      bool      `json:"-"`
	IsSuperuser  bool      `json:"-"`

	// Profile is nil when no extension record was created for the identity.
	Profile Profile `json:"-"`
}

// FullName joins first and last name.
func (i *Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// EmployeeProfile returns the employee variant, or nil.
func (i *Identity) EmployeeProfile() *EmployeeProfile {
	p, _ := i.Profile.(*EmployeeProfile)
	return p
}

// ManagerProfile returns the manager variant, or nil.
func (i *Identity) ManagerProfile() *ManagerProfile {
	p, _ := i.Profile.(*ManagerProfile)
	return p
}

// NormalizeEmail trims surrounding whitespace and lower-cases the domain part.
// The local part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
