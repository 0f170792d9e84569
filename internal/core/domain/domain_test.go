package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  Ada@Example.COM ": "Ada@example.com",
		"ada@example.com":    "ada@example.com",
		"no-at-sign":         "no-at-sign",
		"a@b@EXAMPLE.com":    "a@b@example.com",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewProfile(t *testing.T) {
	zero := 0
	draft := ProfileDraft{
		Employee: &EmployeeProfileDraft{Department: "Eng", Position: "Dev"},
		Manager:  &ManagerProfileDraft{ManagedDepartment: "Ops"},
	}

	emp, ok := NewProfile(RoleEmployee, draft).(*EmployeeProfile)
	if !ok || emp.LeaveBalance != DefaultLeaveBalance || emp.Role() != RoleEmployee {
		t.Fatalf("unexpected employee profile: %#v", emp)
	}

	draft.Employee.LeaveBalance = &zero
	emp = NewProfile(RoleEmployee, draft).(*EmployeeProfile)
	if emp.LeaveBalance != 0 {
		t.Fatalf("explicit zero balance not kept: %d", emp.LeaveBalance)
	}

	mgr, ok := NewProfile(RoleManager, draft).(*ManagerProfile)
	if !ok || mgr.ManagedDepartment != "Ops" {
		t.Fatalf("unexpected manager profile: %#v", mgr)
	}

	if p := NewProfile(RoleManager, ProfileDraft{Employee: draft.Employee}); p != nil {
		t.Fatalf("cross-role payload must be ignored, got %#v", p)
	}
	if p := NewProfile(Role("admin"), draft); p != nil {
		t.Fatalf("unknown role must yield no profile, got %#v", p)
	}
}

func TestIdentityAccessors(t *testing.T) {
	i := &Identity{FirstName: "Ada", LastName: "", Profile: &ManagerProfile{ManagedDepartment: "Ops"}}

	if i.FullName() != "Ada" {
		t.Fatalf("unexpected full name %q", i.FullName())
	}
	if i.EmployeeProfile() != nil || i.ManagerProfile() == nil {
		t.Fatalf("accessors disagree with profile variant")
	}
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	if verr.ErrOrNil() != nil {
		t.Fatalf("empty ValidationError must be nil")
	}

	verr.Add("password", "this field is required")
	verr.Add("email", "enter a valid email address")

	err := verr.ErrOrNil()
	if err == nil {
		t.Fatalf("expected an error")
	}
	want := "validation failed: email: enter a valid email address; password: this field is required"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestProvisioningErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("register: %w", &ProvisioningError{Err: ErrEmailTaken})

	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
	var perr *ProvisioningError
	if !errors.As(err, &perr) {
		t.Fatalf("expected errors.As to find ProvisioningError")
	}
}
