package domain

import "time"

// AuthEventType names an entry in the authentication audit trail.
type AuthEventType string

const (
	EventRegistered     AuthEventType = "registered"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLogout         AuthEventType = "logout"
)

// AuthEvent records something that happened to an account.
type AuthEvent struct {
	Type       AuthEventType
	Email      string
	IdentityID int64 // zero when the account is unknown (failed login)
	Role       Role
	OccurredAt time.Time
}
