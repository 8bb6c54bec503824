package repositories

import (
	"context"

	"github.com/avstream/media_access_app/internal/core/domain"
)

// MediaObjectRepository defines persistence operations for media objects and
// their master files. The read-group mutations are required to be idempotent
// and safe under concurrent writers (see AddReadGroup/RemoveReadGroup).
type MediaObjectRepository interface {
	// CreateMediaObject persists a new media object.
	CreateMediaObject(ctx context.Context, mediaObject domain.MediaObject) error

	// MediaObjectExists reports whether a media object with the id exists.
	MediaObjectExists(ctx context.Context, mediaObjectID string) (bool, error)

	// FindMediaObjectByID retrieves a media object by id.
	// Returns apperrors.ErrNotFound when no such object exists.
	FindMediaObjectByID(ctx context.Context, mediaObjectID string) (*domain.MediaObject, error)

	// SetPublished updates the publication flag.
	SetPublished(ctx context.Context, mediaObjectID string, published bool) error

	// AddReadGroup inserts the group into the object's read-group list if it
	// is not already present. Adding an existing group is a no-op; the group
	// never appears twice. The membership test and insert happen in a single
	// statement so concurrent writers cannot stomp each other's entries.
	AddReadGroup(ctx context.Context, mediaObjectID, group string) error

	// RemoveReadGroup removes every occurrence of the group from the
	// object's read-group list. Removing an absent group is a no-op.
	RemoveReadGroup(ctx context.Context, mediaObjectID, group string) error

	// CreateMasterFile persists a new master file under a media object.
	CreateMasterFile(ctx context.Context, masterFile domain.MasterFile) error

	// FindMasterFileByID retrieves a master file by id.
	// Returns apperrors.ErrNotFound when no such file exists.
	FindMasterFileByID(ctx context.Context, masterFileID string) (*domain.MasterFile, error)
}
