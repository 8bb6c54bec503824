package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/dto"
	"github.com/avstream/media_access_app/internal/utils"
	"github.com/avstream/media_access_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// notFoundMessage is used both for a nonexistent media object and for a
// creator without a role on the owning collection, so the existence of
// resources is not leaked to unauthorized creators.
const notFoundMessage = "not found"

// accessTokenService implements the AccessTokenSvc interface.
type accessTokenService struct {
	tokenRepo      portsrepo.AccessTokenRepository
	mediaRepo      portsrepo.MediaObjectRepository
	collectionRepo portsrepo.CollectionRepository
	logger         *slog.Logger
}

// NewAccessTokenService creates a new instance of accessTokenService.
func NewAccessTokenService(
	tokenRepo portsrepo.AccessTokenRepository,
	mediaRepo portsrepo.MediaObjectRepository,
	collectionRepo portsrepo.CollectionRepository,
	logger *slog.Logger,
) portssvc.AccessTokenSvc {
	return &accessTokenService{
		tokenRepo:      tokenRepo,
		mediaRepo:      mediaRepo,
		collectionRepo: collectionRepo,
		logger:         logger,
	}
}

// CreateAccessToken validates the request, mints the token string and
// persists the token. When the new token is immediately active its token
// string is added to the media object's read-group list.
func (s *accessTokenService) CreateAccessToken(ctx context.Context, req dto.CreateAccessTokenRequest, creator *domain.User) (*domain.AccessToken, error) {
	if creator == nil {
		return nil, apperrors.ErrUnauthorized
	}

	ve := apperrors.ValidationErrors{}

	switch {
	case req.Expiration.IsZero():
		ve.Add("expiration", "can't be blank")
	case !req.Expiration.After(time.Now()):
		ve.Add("expiration", "is in the past")
	}

	authorized, err := s.creatorMayMint(ctx, req.MediaObjectID, creator)
	if err != nil {
		return nil, err
	}
	if !authorized {
		ve.Add("mediaObjectID", notFoundMessage)
	}

	if ve.HasErrors() {
		return nil, ve
	}

	tokenString, err := utils.GenerateAccessTokenString()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token string: %w", err)
	}

	allowStreaming, allowDownload := domain.AccessMode(req.AccessMode).Flags()
	now := time.Now()
	token := domain.AccessToken{
		AccessTokenID:  uuid.NewString(),
		Token:          tokenString,
		MediaObjectID:  req.MediaObjectID,
		UserID:         creator.UserID,
		Description:    req.Description,
		Expiration:     req.Expiration,
		AllowStreaming: allowStreaming,
		AllowDownload:  allowDownload,
		Expired:        req.Expiration.Before(now),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}

	if err := s.tokenRepo.CreateAccessToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	if token.IsActive() {
		// A read-group sync failure must not fail the creation; the sweep
		// re-converges read groups on its next pass.
		if err := s.mediaRepo.AddReadGroup(ctx, token.MediaObjectID, token.Token); err != nil {
			s.logger.Warn("failed to add read group for new access token",
				slog.String("access_token_id", token.AccessTokenID),
				slog.String("media_object_id", token.MediaObjectID),
				slog.String("error", err.Error()))
		}
	}

	return &token, nil
}

// creatorMayMint reports whether creator may mint a token for the media
// object: the object must exist and the creator must be an administrator or a
// manager/editor/depositor of its owning collection. Both failure cases are
// indistinguishable to the caller.
func (s *accessTokenService) creatorMayMint(ctx context.Context, mediaObjectID string, creator *domain.User) (bool, error) {
	if mediaObjectID == "" {
		return false, nil
	}
	exists, err := s.mediaRepo.MediaObjectExists(ctx, mediaObjectID)
	if err != nil {
		return false, fmt.Errorf("failed to check media object existence: %w", err)
	}
	if !exists {
		return false, nil
	}
	if creator.IsAdministrator() {
		return true, nil
	}

	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, mediaObjectID)
	if err != nil {
		return false, fmt.Errorf("failed to load media object: %w", err)
	}
	collection, err := s.collectionRepo.FindCollectionByID(ctx, mediaObject.CollectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load collection: %w", err)
	}
	return collection.IsMember(creator.UserID), nil
}

// GetAccessTokenByID retrieves a token, restricted to administrators and
// members of the owning collection.
func (s *accessTokenService) GetAccessTokenByID(ctx context.Context, accessTokenID string, requester *domain.User) (*domain.AccessToken, error) {
	token, err := s.tokenRepo.FindAccessTokenByID(ctx, accessTokenID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.requesterManagesToken(ctx, token, requester)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.ErrForbidden
	}
	return token, nil
}

// FindByTokenString resolves a presented token string.
func (s *accessTokenService) FindByTokenString(ctx context.Context, tokenString string) (*domain.AccessToken, error) {
	if tokenString == "" {
		return nil, apperrors.ErrNotFound
	}
	return s.tokenRepo.FindAccessTokenByToken(ctx, tokenString)
}

// ListAccessTokens returns a page of tokens ordered by expiration.
// Administrators see everything; other users are filtered in application
// memory to tokens for collections they manage or edit, since the underlying
// store cannot express that join.
func (s *accessTokenService) ListAccessTokens(ctx context.Context, req dto.ListAccessTokensRequest, requester *domain.User) (*dto.ListAccessTokensResponse, error) {
	if requester == nil {
		return nil, apperrors.ErrUnauthorized
	}

	status := domain.TokenStatus(req.Status)
	if !domain.ValidStatusFilter(status) {
		status = domain.TokenStatusActive
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var afterExpiration *time.Time
	var afterID string
	if req.PageToken != "" {
		expiration, id, err := pagination.DecodeToken(req.PageToken)
		if err != nil {
			ve := apperrors.ValidationErrors{}
			ve.Add("pageToken", "is invalid")
			return nil, ve
		}
		afterExpiration = &expiration
		afterID = id
	}

	isAdmin := requester.IsAdministrator()
	resp := &dto.ListAccessTokensResponse{}
	collected := make([]domain.AccessToken, 0, pageSize)

	// Non-admins may discard most of a fetched page, so keep fetching until
	// one token past the requested page is collected (proving a next page
	// exists) or the store runs out of rows.
	exhausted := false
	for len(collected) < pageSize+1 && !exhausted {
		tokens, err := s.tokenRepo.ListAccessTokens(ctx, status, pageSize, afterExpiration, afterID)
		if err != nil {
			return nil, fmt.Errorf("failed to list access tokens: %w", err)
		}
		if len(tokens) == 0 {
			break
		}

		if len(tokens) > pageSize {
			tokens = tokens[:pageSize]
		} else {
			exhausted = true
		}

		for i := range tokens {
			token := tokens[i]
			if !isAdmin {
				manages, err := s.requesterEditsTokenCollection(ctx, &token, requester)
				if err != nil {
					s.logger.Warn("failed to resolve collection for token during list",
						slog.String("access_token_id", token.AccessTokenID),
						slog.String("error", err.Error()))
					continue
				}
				if !manages {
					continue
				}
			}
			collected = append(collected, token)
		}

		last := tokens[len(tokens)-1]
		exp := last.Expiration
		afterExpiration = &exp
		afterID = last.AccessTokenID
	}

	if len(collected) > pageSize {
		collected = collected[:pageSize]
		last := collected[len(collected)-1]
		resp.NextPageToken = pagination.EncodeToken(last.Expiration, last.AccessTokenID)
	}

	resp.AccessTokens = dto.ToAccessTokenResponseList(collected)
	return resp, nil
}

// UpdateAccessToken applies mutable changes. The expiration of a persisted
// token is immutable: an attempted change is ignored with a warning log and
// the rest of the update proceeds.
func (s *accessTokenService) UpdateAccessToken(ctx context.Context, accessTokenID string, req dto.UpdateAccessTokenRequest, requester *domain.User) (*domain.AccessToken, error) {
	token, err := s.tokenRepo.FindAccessTokenByID(ctx, accessTokenID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.requesterManagesToken(ctx, token, requester)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.ErrForbidden
	}

	if req.Expiration != nil && !req.Expiration.Equal(token.Expiration) {
		s.logger.Warn("ignoring attempt to change expiration of persisted access token",
			slog.String("access_token_id", token.AccessTokenID),
			slog.Time("current_expiration", token.Expiration),
			slog.Time("requested_expiration", *req.Expiration))
	}

	if req.Description != nil {
		token.Description = *req.Description
	}
	if req.AccessMode != nil {
		token.AllowStreaming, token.AllowDownload = domain.AccessMode(*req.AccessMode).Flags()
	}

	wantRevoke := req.Revoked != nil && *req.Revoked && !token.Revoked
	if req.Revoked != nil && !*req.Revoked && token.Revoked {
		// Revocation is terminal; un-revoking is not supported.
		return nil, apperrors.ErrForbidden
	}

	wasExpired := token.Expired
	token.Expired = token.IsExpired()
	token.LastUpdatedAt = time.Now()
	token.LastUpdatedBy = requester.UserID
	if wantRevoke {
		token.Revoked = true
	}

	if err := s.tokenRepo.UpdateAccessToken(ctx, *token); err != nil {
		return nil, fmt.Errorf("failed to update access token: %w", err)
	}

	// An update can be the first save after the expiration lapses. Once the
	// expired flag is persisted the sweep no longer sees the token, so the
	// read group must come out here.
	if wantRevoke || (token.Expired && !wasExpired) {
		s.removeReadGroup(ctx, token)
	}

	return token, nil
}

// RevokeAccessToken marks the token revoked and synchronously removes its
// read group from the media object, closing the grant immediately rather
// than waiting for the next sweep.
func (s *accessTokenService) RevokeAccessToken(ctx context.Context, accessTokenID string, requester *domain.User) (*domain.AccessToken, error) {
	revoked := true
	return s.UpdateAccessToken(ctx, accessTokenID, dto.UpdateAccessTokenRequest{Revoked: &revoked}, requester)
}

// ExpireAccessToken transitions a token past its expiration: the expired
// flag is persisted (the future-expiration validation does not apply to this
// terminal transition) and the read group is removed. Tokens that should not
// expire yet are left untouched.
func (s *accessTokenService) ExpireAccessToken(ctx context.Context, token *domain.AccessToken) error {
	if !token.IsExpired() {
		return nil
	}
	token.Expired = true
	token.LastUpdatedAt = time.Now()
	if err := s.tokenRepo.UpdateAccessToken(ctx, *token); err != nil {
		return fmt.Errorf("failed to persist expired flag: %w", err)
	}
	s.removeReadGroup(ctx, token)
	return nil
}

// removeReadGroup removes the token's read group from its media object.
// Removal is idempotent; a transient failure is logged and left for the next
// sweep to retry rather than propagated.
func (s *accessTokenService) removeReadGroup(ctx context.Context, token *domain.AccessToken) {
	if err := s.mediaRepo.RemoveReadGroup(ctx, token.MediaObjectID, token.Token); err != nil {
		s.logger.Warn("failed to remove read group for inactive access token",
			slog.String("access_token_id", token.AccessTokenID),
			slog.String("media_object_id", token.MediaObjectID),
			slog.String("error", err.Error()))
	}
}

// AllowStreamingOf reports whether the presented token string grants
// streaming of the media object. Unknown tokens grant nothing.
func (s *accessTokenService) AllowStreamingOf(ctx context.Context, tokenString, mediaObjectID string) bool {
	token, err := s.FindByTokenString(ctx, tokenString)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to resolve access token for streaming check",
				slog.String("error", err.Error()))
		}
		return false
	}
	return token.AllowsStreamingOf(mediaObjectID)
}

// requesterManagesToken reports whether the requester may view or mutate the
// token: administrators always, otherwise members of the collection owning
// the token's media object.
func (s *accessTokenService) requesterManagesToken(ctx context.Context, token *domain.AccessToken, requester *domain.User) (bool, error) {
	if requester == nil {
		return false, nil
	}
	if requester.IsAdministrator() {
		return true, nil
	}
	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, token.MediaObjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	collection, err := s.collectionRepo.FindCollectionByID(ctx, mediaObject.CollectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return collection.IsMember(requester.UserID), nil
}

// requesterEditsTokenCollection is the list filter: managers and editors of
// the owning collection see the token in listings.
func (s *accessTokenService) requesterEditsTokenCollection(ctx context.Context, token *domain.AccessToken, requester *domain.User) (bool, error) {
	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, token.MediaObjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	collection, err := s.collectionRepo.FindCollectionByID(ctx, mediaObject.CollectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return collection.IsEditorOrManager(requester.UserID), nil
}
