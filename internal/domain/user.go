package domain

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAgent Role = "AGENT"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to support staff.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is a registered account. Tickets, replies and votes reference it by ID.
type User struct {
	ID           string
	Name         string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
