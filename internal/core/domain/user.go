package domain

import (
	"slices"
	"time"
)

// User represents a staff or patron account in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (e.g., UUID)
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Groups       []string `json:"groups"` // role groups stored on the account (e.g. administrator)
	// Refresh token state for session renewal.
	RefreshTokenHash       *string    `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// InGroup reports whether the user's stored groups include the given name.
func (u *User) InGroup(group string) bool {
	return slices.Contains(u.Groups, group)
}

// IsAdministrator reports whether the user belongs to the administrator group.
func (u *User) IsAdministrator() bool {
	return u.InGroup(GroupAdministrator)
}
