package repositories

import (
	"context"
	"time"

	"github.com/avstream/media_access_app/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// SaveUser persists a new user.
	// Returns apperrors.ErrDuplicate when the username or email is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by id.
	// Returns apperrors.ErrNotFound when no such user exists.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	// Returns apperrors.ErrNotFound when no such user exists.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email.
	// Returns apperrors.ErrNotFound when no such user exists.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateRefreshToken stores the hash and expiry of a freshly issued
	// refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken removes the stored refresh token state.
	ClearRefreshToken(ctx context.Context, userID string) error
}
