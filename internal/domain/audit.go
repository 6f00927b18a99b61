package domain

import (
	"fmt"
	"time"
)

// EventKind categorizes an audit event
type EventKind string

const (
	EventRegistration  EventKind = "Registration"
	EventLogin         EventKind = "Login"
	EventLogout        EventKind = "Logout"
	EventProfileUpdate EventKind = "Update"
	EventFunding       EventKind = "Funding"
)

// AuditEvent Model, append-only. Identity fields are denormalized so the
// record stays readable after the principal changes its profile.
type AuditEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                     // Insertion order
	CreatedAt   time.Time `gorm:"not null" json:"date"`                     // Server clock at append
	Kind        EventKind `gorm:"size:32;not null;index" json:"type"`       // Event category
	Email       string    `gorm:"size:191;index" json:"email,omitempty"`    // Subject identity
	Username    string    `gorm:"size:191" json:"username,omitempty"`       // Subject display name
	Description string    `gorm:"size:512;not null" json:"description"`     // Synthesized from kind + identity
}

// Describe builds the description text for an event of the given kind
func Describe(kind EventKind, email string) string {
	switch kind {
	case EventRegistration:
		return fmt.Sprintf("A new user with email %s has registered.", email)
	case EventLogin:
		return fmt.Sprintf("User with email %s has logged in.", email)
	case EventLogout:
		return fmt.Sprintf("User with email %s has logged out.", email)
	case EventProfileUpdate:
		return fmt.Sprintf("User with email %s has updated their profile.", email)
	case EventFunding:
		return fmt.Sprintf("User with email %s has funded their wallet.", email)
	default:
		return fmt.Sprintf("User with email %s: %s.", email, kind)
	}
}
