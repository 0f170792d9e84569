package handler

import (
	"time"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// --- Request / Response types ---

type employeeProfileResponse struct {
	Department   string `json:"department"`
	Position     string `json:"position"`
	LeaveBalance int    `json:"leave_balance"`
}

type managerProfileResponse struct {
	ManagedDepartment string `json:"managed_department"`
}

type userResponse struct {
	ID              int64                    `json:"id"`
	Email           string                   `json:"email"`
	FirstName       string                   `json:"first_name"`
	LastName        string                   `json:"last_name"`
	Role            string                   `json:"role"`
	DateJoined      string                   `json:"date_joined"`
	EmployeeProfile *employeeProfileResponse `json:"employee_profile,omitempty"`
	ManagerProfile  *managerProfileResponse  `json:"manager_profile,omitempty"`
}

type adminUserResponse struct {
	userResponse
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type listUsersResponse struct {
	Items      []adminUserResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// --- Mapping ---

// toUserResponse renders only the profile variant the identity owns.
func toUserResponse(i *domain.Identity) userResponse {
	resp := userResponse{
		ID:         i.ID,
		Email:      i.Email,
		FirstName:  i.FirstName,
		LastName:   i.LastName,
		Role:       string(i.Role),
		DateJoined: i.DateJoined.UTC().Format(time.RFC3339),
	}

	switch p := i.Profile.(type) {
	case *domain.EmployeeProfile:
		resp.EmployeeProfile = &employeeProfileResponse{
			Department:   p.Department,
			Position:     p.Position,
			LeaveBalance: p.LeaveBalance,
		}
	case *domain.ManagerProfile:
		resp.ManagerProfile = &managerProfileResponse{ManagedDepartment: p.ManagedDepartment}
	}
	return resp
}

func toAdminUserResponse(i *domain.Identity) adminUserResponse {
	return adminUserResponse{
		userResponse: toUserResponse(i),
		FullName:     i.FullName(),
		IsActive:     i.IsActive,
		IsStaff:      i.IsStaff,
		IsSuperuser:  i.IsSuperuser,
	}
}
