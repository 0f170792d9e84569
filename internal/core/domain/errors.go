package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrProfileExists       = errors.New("profile already exists for identity")
	ErrProfileRoleMismatch = errors.New("profile variant does not match identity role")
	ErrForbidden           = errors.New("access forbidden")
)

// ValidationError reports malformed or missing input, keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field errors were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ErrOrNil returns e when it holds at least one field error.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ProvisioningError is returned when the identity+profile transaction fails.
// Both writes have been rolled back; Err is the underlying cause.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string {
	return "provisioning failed: " + e.Err.Error()
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
