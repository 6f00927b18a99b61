package domain

import "time"

// Presence is the online/offline indicator of a principal
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
)

// Valid reports whether p is one of the known presence values
func (p Presence) Valid() bool {
	return p == PresenceOnline || p == PresenceOffline
}

// Principal Model
type Principal struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                                  // Primary key
	Email         string    `gorm:"size:191;uniqueIndex;not null" json:"email"`            // Unique identity, case-sensitive as stored
	Username      string    `gorm:"size:191;uniqueIndex;not null" json:"username"`         // Unique display name
	PhoneNumber   string    `gorm:"size:64" json:"phone_number"`                           // Informational only
	Password      string    `gorm:"not null" json:"-"`                                     // bcrypt hash, never serialized
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`          // Gates login
	Status        Presence  `gorm:"size:16;not null;default:offline;index" json:"status"`  // Presence
	LastSeen      time.Time `json:"last_seen"`                                             // Updated on login and logout
	Wallet        Wallet    `gorm:"embedded" json:"wallet"`                                // Embedded wallet sub-record
	CreatedAt     time.Time `json:"created_at"`                                            // Registration time
	UpdatedAt     time.Time `json:"updated_at"`                                            // Last mutation
}

// PrincipalUpdate carries a partial update; nil fields are left untouched
type PrincipalUpdate struct {
	Email         *string
	Username      *string
	PhoneNumber   *string
	EmailVerified *bool
	Status        *Presence
	LastSeen      *time.Time
}

// Columns converts the update into a gorm column map
func (u PrincipalUpdate) Columns() map[string]any {
	cols := map[string]any{}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.Username != nil {
		cols["username"] = *u.Username
	}
	if u.PhoneNumber != nil {
		cols["phone_number"] = *u.PhoneNumber
	}
	if u.EmailVerified != nil {
		cols["email_verified"] = *u.EmailVerified
	}
	if u.Status != nil {
		cols["status"] = string(*u.Status)
	}
	if u.LastSeen != nil {
		cols["last_seen"] = *u.LastSeen
	}
	return cols
}
