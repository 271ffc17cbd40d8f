// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data: plain values with no
// behaviour beyond a few helpers. Go favours composition over inheritance.
package model

import "time"

// Role is the enumerated permission level of a user account.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleVerified    Role = "verified"
	RoleExperienced Role = "experienced"
	RoleUser        Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVerified, RoleExperienced, RoleUser:
		return true
	}
	return false
}

// User represents a registered account.
//
// PasswordHash is the bcrypt output and is never serialized (json:"-").
// Username carries a UNIQUE constraint in the database, so two accounts can
// never share a name even if two registrations race.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin is a convenience used by admin-only service methods.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
