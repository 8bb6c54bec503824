package services

import (
	"log/slog"

	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/platform/config"
)

// NewContainer wires every service with its dependencies and returns the
// populated ServiceContainer.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	cfg *config.Config,
	ipResolver *IPGroupResolver,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo, logger)
	tokenSvc := NewTokenService(repos.UserRepo, cfg, logger)
	googleOAuthSvc := NewGoogleOAuthHandlerService(cfg, logger)

	accessTokenSvc := NewAccessTokenService(repos.AccessTokenRepo, repos.MediaObjectRepo, repos.CollectionRepo, logger)
	abilitySvc := NewAbilityService(accessTokenSvc, repos.MediaObjectRepo, repos.CollectionRepo, ipResolver, logger)
	cleanupSvc := NewCleanupService(repos.AccessTokenRepo, accessTokenSvc, logger)

	mediaObjectSvc := NewMediaObjectService(repos.MediaObjectRepo, repos.CollectionRepo, logger)
	collectionSvc := NewCollectionService(repos.CollectionRepo, logger)

	return &portssvc.ServiceContainer{
		User:        userSvc,
		Auth:        tokenSvc,
		GoogleOAuth: googleOAuthSvc,
		AccessToken: accessTokenSvc,
		Ability:     abilitySvc,
		Cleanup:     cleanupSvc,
		MediaObject: mediaObjectSvc,
		Collection:  collectionSvc,
	}
}
