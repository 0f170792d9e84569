package domain

// DefaultLeaveBalance is the number of leave days an employee starts with.
const DefaultLeaveBalance = 24

// Profile is the role-specific extension of an Identity. The only
// implementations are *EmployeeProfile and *ManagerProfile.
type Profile interface {
	// Role is the identity role this variant belongs to.
	Role() Role
	sealed()
}

// EmployeeProfile is owned by identities with RoleEmployee.
type EmployeeProfile struct {
	Department   string `json:"department"`
	Position     string `json:"position"`
	LeaveBalance int    `json:"leave_balance"`
}

func (*EmployeeProfile) Role() Role { return RoleEmployee }
func (*EmployeeProfile) sealed()    {}

// ManagerProfile is owned by identities with RoleManager.
type ManagerProfile struct {
	ManagedDepartment string `json:"managed_department"`
}

func (*ManagerProfile) Role() Role { return RoleManager }
func (*ManagerProfile) sealed()    {}

// ProfileDraft carries optional profile payloads for both variants as they
// arrive from a client. Only the one matching the role survives NewProfile.
type ProfileDraft struct {
	Employee *EmployeeProfileDraft
	Manager  *ManagerProfileDraft
}

// EmployeeProfileDraft is an employee profile payload. LeaveBalance is nil when
// the client omitted it.
type EmployeeProfileDraft struct {
	Department   string
	Position     string
	LeaveBalance *int
}

// ManagerProfileDraft is a manager profile payload.
type ManagerProfileDraft struct {
	ManagedDepartment string
}

// NewProfile picks the payload matching role and turns it into a Profile.
// A payload for the other role is ignored. Returns nil when no matching
// payload was supplied.
func NewProfile(role Role, draft ProfileDraft) Profile {
	switch role {
	case RoleEmployee:
		if draft.Employee == nil {
			return nil
		}
		balance := DefaultLeaveBalance
		if draft.Employee.LeaveBalance != nil {
			balance = *draft.Employee.LeaveBalance
		}
		return &EmployeeProfile{
			Department:   draft.Employee.Department,
			Position:     draft.Employee.Position,
			LeaveBalance: balance,
		}
	case RoleManager:
		if draft.Manager == nil {
			return nil
		}
		return &ManagerProfile{ManagedDepartment: draft.Manager.ManagedDepartment}
	}
	return nil
}
