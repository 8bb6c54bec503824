package repositories

import (
	"context"
	"time"

	"github.com/avstream/media_access_app/internal/core/domain"
)

// AccessTokenRepository defines persistence operations for access tokens.
//
// There is deliberately no delete operation: expiry and revocation are the
// terminal states of a token, the row itself is kept for auditing.
type AccessTokenRepository interface {
	// CreateAccessToken persists a new token.
	CreateAccessToken(ctx context.Context, token domain.AccessToken) error

	// FindAccessTokenByID retrieves a token by its primary key.
	// Returns apperrors.ErrNotFound when no such token exists.
	FindAccessTokenByID(ctx context.Context, accessTokenID string) (*domain.AccessToken, error)

	// FindAccessTokenByToken retrieves a token by its token string.
	// Returns apperrors.ErrNotFound when no such token exists.
	FindAccessTokenByToken(ctx context.Context, tokenString string) (*domain.AccessToken, error)

	// ListAccessTokens returns tokens matching the status filter ordered by
	// expiration then id, starting after the given cursor position when one
	// is provided. It fetches limit+1 rows so the caller can detect whether
	// a further page exists.
	ListAccessTokens(ctx context.Context, status domain.TokenStatus, limit int, afterExpiration *time.Time, afterID string) ([]domain.AccessToken, error)

	// FindUnexpiredAccessTokens returns all tokens whose expired flag is
	// still false, for the cleanup sweep.
	FindUnexpiredAccessTokens(ctx context.Context) ([]domain.AccessToken, error)

	// UpdateAccessToken persists mutable fields (description, grant flags,
	// revoked, expired, audit fields). The token string, media object id and
	// expiration columns are never written after creation.
	UpdateAccessToken(ctx context.Context, token domain.AccessToken) error
}
