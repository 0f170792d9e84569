package validate

import (
	"errors"
	"testing"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

type sample struct {
	Email string `json:"email"      validate:"required,email"`
	Name  string `json:"first_name" validate:"required,max=3"`
	Role  string `json:"role"       validate:"omitempty,oneof=employee manager"`
}

func TestStruct_Valid(t *testing.T) {
	if err := New().Struct(sample{Email: "a@x.com", Name: "Ann"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := New().Struct(sample{Email: "nope", Name: "Annabel", Role: "boss"})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"email", "first_name", "role"} {
		if len(verr.Fields[field]) == 0 {
			t.Fatalf("expected error for %s, got %+v", field, verr.Fields)
		}
	}
}

func TestCollect_Prefix(t *testing.T) {
	verr := domain.NewValidationError()
	if err := New().Collect(sample{Email: "a@x.com"}, "employee_profile", verr); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := verr.Fields["employee_profile.first_name"]; len(got) != 1 || got[0] != "this field is required" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
}
