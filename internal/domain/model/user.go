package model

import (
	"time"
)

// Role is the closed set of roles a deployment recognises. Authorization
// allow-lists are expressed as slices of this type, not free-form strings.
type Role string

const (
	RoleGuest  Role = "Guest"
	RoleEditor Role = "Editor"
	RoleAdmin  Role = "Admin"
)

// ParseRole maps a stored or token-carried string onto the closed enum.
// Unknown strings fail closed.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGuest, RoleEditor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// UserStatus is persisted as an integer; the zero value is Inactive.
type UserStatus int

const (
	StatusInactive  UserStatus = 0
	StatusActive    UserStatus = 1
	StatusSuspended UserStatus = 2
)

func ParseUserStatus(n int) (UserStatus, bool) {
	switch UserStatus(n) {
	case StatusInactive, StatusActive, StatusSuspended:
		return UserStatus(n), true
	}
	return 0, false
}

type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // Not exposed
	Status         UserStatus `json:"status"`
	Role           Role       `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
