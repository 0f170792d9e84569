// Package validate wraps go-playground/validator and reports failures as
// *domain.ValidationError keyed by JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/staff-accounts/internal/core/domain"
)

// Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Collect validates s and appends every field failure to verr, prefixing
// field names with prefix ("employee_profile" -> "employee_profile.department").
// Non-validation errors (e.g. s is not a struct) are returned as is.
func (val *Validator) Collect(s any, prefix string, verr *domain.ValidationError) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	for _, fe := range ve {
		field := fe.Field()
		if prefix != "" {
			field = prefix + "." + field
		}
		verr.Add(field, message(fe))
	}
	return nil
}

// Struct validates s on its own and returns a *domain.ValidationError or nil.
func (val *Validator) Struct(s any) error {
	verr := domain.NewValidationError()
	if err := val.Collect(s, "", verr); err != nil {
		return err
	}
	return verr.ErrOrNil()
}

// Validate satisfies echo.Validator so handlers can call c.Validate(req).
func (val *Validator) Validate(i any) error {
	return val.Struct(i)
}

// message converts a single FieldError into a human-readable message.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
