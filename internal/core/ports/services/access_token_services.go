package services

import (
	"context"

	"github.com/avstream/media_access_app/internal/core/domain"
	"github.com/avstream/media_access_app/internal/dto"
)

// AccessTokenSvc defines lifecycle operations for media access tokens.
type AccessTokenSvc interface {
	// CreateAccessToken validates and persists a new token for the creator.
	// On success the token string has been added to the media object's
	// read-group list when the token is already active.
	//
	// Validation failures are returned as apperrors.ValidationErrors. A
	// nonexistent media object and a creator without a role on the owning
	// collection produce an identical "not found" message so the existence
	// of resources is not leaked to unauthorized creators.
	CreateAccessToken(ctx context.Context, req dto.CreateAccessTokenRequest, creator *domain.User) (*domain.AccessToken, error)

	// GetAccessTokenByID retrieves a token by id, enforcing that the
	// requester may view it (administrator, or member of the owning
	// collection).
	GetAccessTokenByID(ctx context.Context, accessTokenID string, requester *domain.User) (*domain.AccessToken, error)

	// FindByTokenString resolves a presented token string. An unknown or
	// blank string returns apperrors.ErrNotFound, never any other error
	// class.
	FindByTokenString(ctx context.Context, tokenString string) (*domain.AccessToken, error)

	// ListAccessTokens returns a page of tokens matching the status filter,
	// ordered by expiration. Administrators see all tokens; other users see
	// only tokens for media objects in collections they manage or edit,
	// filtered in application memory.
	ListAccessTokens(ctx context.Context, req dto.ListAccessTokensRequest, requester *domain.User) (*dto.ListAccessTokensResponse, error)

	// UpdateAccessToken applies mutable changes (description, access mode,
	// revoked). An attempted expiration change on a persisted token is
	// ignored with a warning log: the expiration is immutable once set.
	UpdateAccessToken(ctx context.Context, accessTokenID string, req dto.UpdateAccessTokenRequest, requester *domain.User) (*domain.AccessToken, error)

	// RevokeAccessToken marks the token revoked and synchronously removes
	// its read group from the media object.
	RevokeAccessToken(ctx context.Context, accessTokenID string, requester *domain.User) (*domain.AccessToken, error)

	// ExpireAccessToken transitions a token whose expiration has passed:
	// sets the expired flag and removes the read group. A token that should
	// not expire yet is left untouched.
	ExpireAccessToken(ctx context.Context, token *domain.AccessToken) error

	// AllowStreamingOf reports whether the presented token string grants
	// streaming of the media object. Unknown or blank tokens simply report
	// false.
	AllowStreamingOf(ctx context.Context, tokenString, mediaObjectID string) bool
}

// SweepResult summarises one cleanup pass over unexpired tokens.
type SweepResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// CleanupSvc runs the periodic sweep that transitions naturally-expired
// tokens and removes their read-group grants.
type CleanupSvc interface {
	// Sweep examines every token whose expired flag is unset and expires
	// those past their expiration. A failure on one token is logged and
	// counted but never aborts the rest of the sweep.
	Sweep(ctx context.Context) SweepResult
}
