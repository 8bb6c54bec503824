package services

import (
	"context"

	"github.com/avstream/media_access_app/internal/core/domain"
	"github.com/avstream/media_access_app/internal/dto"
)

// MediaObjectSvc defines the thin persistence glue for media objects that the
// authorization core needs. Ingest and transcoding live in the wider media
// system; this service only registers objects and answers reads.
type MediaObjectSvc interface {
	// CreateMediaObject registers a media object under a collection.
	// Restricted to administrators and members of the owning collection.
	CreateMediaObject(ctx context.Context, req dto.CreateMediaObjectRequest, creator *domain.User) (*domain.MediaObject, error)

	// GetMediaObjectByID retrieves a media object.
	GetMediaObjectByID(ctx context.Context, mediaObjectID string) (*domain.MediaObject, error)

	// SetPublished publishes or unpublishes a media object. Restricted to
	// managers of the owning collection and administrators.
	SetPublished(ctx context.Context, mediaObjectID string, published bool, requester *domain.User) (*domain.MediaObject, error)

	// CreateMasterFile registers a master file under a media object, with
	// the same authorization as CreateMediaObject.
	CreateMasterFile(ctx context.Context, req dto.CreateMasterFileRequest, creator *domain.User) (*domain.MasterFile, error)

	// GetMasterFileByID retrieves a master file.
	GetMasterFileByID(ctx context.Context, masterFileID string) (*domain.MasterFile, error)
}

// CollectionSvc defines collection registration and role lookups.
type CollectionSvc interface {
	// CreateCollection registers a collection with its role lists.
	// Restricted to administrators and members of the manager group.
	CreateCollection(ctx context.Context, req dto.CreateCollectionRequest, creator *domain.User) (*domain.Collection, error)

	// GetCollectionByID retrieves a collection with its role lists.
	GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)
}
