package models

import (
	"database/sql"
	"time"
)

// User represents a user row. Groups maps to a text[] column holding the
// account's role groups.
type User struct {
	UserID       string   `json:"userID" db:"user_id"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Name         string   `json:"name" db:"name"`
	Groups       []string `json:"groups" db:"groups"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	// Refresh Token Fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`        // Store hash of the refresh token
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"` // Expiry of the stored refresh token
}
