package repositories

import (
	"context"

	"github.com/avstream/media_access_app/internal/core/domain"
)

// CollectionRepository defines persistence operations for collections and
// their role membership lists.
type CollectionRepository interface {
	// CreateCollection persists a new collection.
	CreateCollection(ctx context.Context, collection domain.Collection) error

	// FindCollectionByID retrieves a collection with its manager, editor and
	// depositor lists. Returns apperrors.ErrNotFound when no such collection
	// exists.
	FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)

	// UserIsMemberOfAnyCollection reports whether the user holds any role on
	// any collection.
	UserIsMemberOfAnyCollection(ctx context.Context, userID string) (bool, error)
}
