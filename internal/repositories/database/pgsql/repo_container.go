package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accessTokenRepo := newPgxAccessTokenRepository(dbPool)
	mediaObjectRepo := newPgxMediaObjectRepository(dbPool)
	collectionRepo := newPgxCollectionRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return &portsrepo.RepositoryProvider{
		AccessTokenRepo: accessTokenRepo,
		MediaObjectRepo: mediaObjectRepo,
		CollectionRepo:  collectionRepo,
		UserRepo:        userRepo,
	}
}
