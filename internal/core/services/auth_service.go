package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/platform/config"
	"github.com/avstream/media_access_app/internal/utils"
)

// tokenService implements the TokenSvcFacade interface for staff session
// credentials (JWTs and refresh tokens). These are unrelated to the media
// access tokens handled by the access token service.
type tokenService struct {
	userRepo portsrepo.UserRepository
	cfg      *config.Config
	logger   *slog.Logger
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(userRepo portsrepo.UserRepository, cfg *config.Config, logger *slog.Logger) portssvc.TokenSvcFacade {
	return &tokenService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// GenerateAccessToken creates a signed JWT for the user's session.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	tokenString, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	return tokenString, expiryTime, nil
}

// GenerateRefreshToken creates an opaque refresh token. Only the caller ever
// sees the raw value; the user service stores its hash.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	refreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	return refreshToken, expiryTime, nil
}

// ValidateAndParseRefreshToken checks the presented refresh token against the
// user's stored hash and expiry. Every failure mode maps to ErrUnauthorized
// so callers cannot distinguish a wrong token from a missing one.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	logger := s.logger.With(slog.String("user_id", userID))

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if user.RefreshTokenHash == nil || user.RefreshTokenExpiryTime == nil {
		logger.Warn("refresh token presented but none is stored")
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		logger.Warn("refresh token expired")
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CompareRefreshTokenHash(refreshTokenString, *user.RefreshTokenHash) {
		logger.Warn("refresh token hash mismatch")
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade
// interface using the standard Google endpoints.
type googleOAuthHandlerService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
	logger       *slog.Logger
}

// NewGoogleOAuthHandlerService creates a new instance of
// googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config, logger *slog.Logger) portssvc.GoogleOAuthHandlerSvcFacade {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
	return &googleOAuthHandlerService{
		cfg:          cfg,
		oauth2Config: oauth2Config,
		logger:       logger,
	}
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("failed to exchange authorization code", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token string from Google and returns
// its payload.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		s.logger.Warn("google id token failed validation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("invalid google id token: %w", err)
	}
	return payload, nil
}
