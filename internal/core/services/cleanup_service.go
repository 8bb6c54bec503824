package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
)

// cleanupService implements the CleanupSvc interface. It is the scheduled
// counterpart to the lazy expiry checks: tokens whose expiration has passed
// but whose expired flag is still unset get their terminal transition and
// read-group removal here.
type cleanupService struct {
	tokenRepo portsrepo.AccessTokenRepository
	tokenSvc  portssvc.AccessTokenSvc
	logger    *slog.Logger
}

// NewCleanupService creates a new instance of cleanupService.
func NewCleanupService(
	tokenRepo portsrepo.AccessTokenRepository,
	tokenSvc portssvc.AccessTokenSvc,
	logger *slog.Logger,
) portssvc.CleanupSvc {
	return &cleanupService{
		tokenRepo: tokenRepo,
		tokenSvc:  tokenSvc,
		logger:    logger,
	}
}

// Sweep transitions every naturally-expired token. Each token is processed
// independently: a persistence failure on one record is logged, counted as
// failed and the sweep continues. The transition is monotonic (active to
// inactive only), so concurrent sweeps or creations need no global lock.
func (s *cleanupService) Sweep(ctx context.Context) portssvc.SweepResult {
	result := portssvc.SweepResult{}

	tokens, err := s.tokenRepo.FindUnexpiredAccessTokens(ctx)
	if err != nil {
		s.logger.Error("cleanup sweep failed to list unexpired tokens",
			slog.String("error", err.Error()))
		result.Failed++
		return result
	}

	for i := range tokens {
		token := tokens[i]
		if !token.IsExpired() {
			continue
		}
		result.Processed++
		if err := s.tokenSvc.ExpireAccessToken(ctx, &token); err != nil {
			result.Failed++
			s.logger.Warn("cleanup sweep failed to expire token",
				slog.String("access_token_id", token.AccessTokenID),
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("cleanup sweep finished",
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed))
	return result
}
