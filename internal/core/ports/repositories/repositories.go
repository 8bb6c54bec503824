package repositories

// RepositoryProvider holds instances of all the repositories. It is used to
// inject the repositories into the service layer.
type RepositoryProvider struct {
	AccessTokenRepo AccessTokenRepository
	MediaObjectRepo MediaObjectRepository
	CollectionRepo  CollectionRepository
	UserRepo        UserRepository
}
