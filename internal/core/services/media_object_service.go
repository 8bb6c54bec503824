package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/dto"
)

// mediaObjectService implements the MediaObjectSvc interface. It is
// deliberately thin: ingest, transcoding and descriptive metadata live in the
// wider media system, and this service only maintains the records the
// authorization core evaluates against.
type mediaObjectService struct {
	mediaRepo      portsrepo.MediaObjectRepository
	collectionRepo portsrepo.CollectionRepository
	logger         *slog.Logger
}

// NewMediaObjectService creates a new instance of mediaObjectService.
func NewMediaObjectService(
	mediaRepo portsrepo.MediaObjectRepository,
	collectionRepo portsrepo.CollectionRepository,
	logger *slog.Logger,
) portssvc.MediaObjectSvc {
	return &mediaObjectService{
		mediaRepo:      mediaRepo,
		collectionRepo: collectionRepo,
		logger:         logger,
	}
}

// CreateMediaObject registers a media object under a collection.
func (s *mediaObjectService) CreateMediaObject(ctx context.Context, req dto.CreateMediaObjectRequest, creator *domain.User) (*domain.MediaObject, error) {
	collection, err := s.collectionRepo.FindCollectionByID(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}
	if !creator.IsAdministrator() && !collection.IsMember(creator.UserID) {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	mediaObject := domain.MediaObject{
		MediaObjectID: uuid.NewString(),
		CollectionID:  req.CollectionID,
		Title:         req.Title,
		Published:     req.Published,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}
	if err := s.mediaRepo.CreateMediaObject(ctx, mediaObject); err != nil {
		return nil, fmt.Errorf("failed to create media object: %w", err)
	}
	s.logger.Info("media object created",
		slog.String("media_object_id", mediaObject.MediaObjectID),
		slog.String("collection_id", mediaObject.CollectionID))
	return &mediaObject, nil
}

// GetMediaObjectByID retrieves a media object.
func (s *mediaObjectService) GetMediaObjectByID(ctx context.Context, mediaObjectID string) (*domain.MediaObject, error) {
	return s.mediaRepo.FindMediaObjectByID(ctx, mediaObjectID)
}

// SetPublished publishes or unpublishes a media object. Only managers of the
// owning collection and administrators may flip publication.
func (s *mediaObjectService) SetPublished(ctx context.Context, mediaObjectID string, published bool, requester *domain.User) (*domain.MediaObject, error) {
	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, mediaObjectID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdministrator() {
		collection, err := s.collectionRepo.FindCollectionByID(ctx, mediaObject.CollectionID)
		if err != nil {
			return nil, err
		}
		if !collection.IsManager(requester.UserID) {
			return nil, apperrors.ErrForbidden
		}
	}
	if err := s.mediaRepo.SetPublished(ctx, mediaObjectID, published); err != nil {
		return nil, fmt.Errorf("failed to update publication state: %w", err)
	}
	mediaObject.Published = published
	s.logger.Info("media object publication updated",
		slog.String("media_object_id", mediaObjectID),
		slog.Bool("published", published))
	return mediaObject, nil
}

// CreateMasterFile registers a master file under a media object.
func (s *mediaObjectService) CreateMasterFile(ctx context.Context, req dto.CreateMasterFileRequest, creator *domain.User) (*domain.MasterFile, error) {
	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, req.MediaObjectID)
	if err != nil {
		return nil, err
	}
	if !creator.IsAdministrator() {
		collection, err := s.collectionRepo.FindCollectionByID(ctx, mediaObject.CollectionID)
		if err != nil {
			return nil, err
		}
		if !collection.IsMember(creator.UserID) {
			return nil, apperrors.ErrForbidden
		}
	}

	masterFile := domain.MasterFile{
		MasterFileID:  uuid.NewString(),
		MediaObjectID: req.MediaObjectID,
		Label:         req.Label,
	}
	if err := s.mediaRepo.CreateMasterFile(ctx, masterFile); err != nil {
		return nil, fmt.Errorf("failed to create master file: %w", err)
	}
	return &masterFile, nil
}

// GetMasterFileByID retrieves a master file.
func (s *mediaObjectService) GetMasterFileByID(ctx context.Context, masterFileID string) (*domain.MasterFile, error) {
	return s.mediaRepo.FindMasterFileByID(ctx, masterFileID)
}

// collectionService implements the CollectionSvc interface.
type collectionService struct {
	collectionRepo portsrepo.CollectionRepository
	logger         *slog.Logger
}

// NewCollectionService creates a new instance of collectionService.
func NewCollectionService(collectionRepo portsrepo.CollectionRepository, logger *slog.Logger) portssvc.CollectionSvc {
	return &collectionService{
		collectionRepo: collectionRepo,
		logger:         logger,
	}
}

// CreateCollection registers a collection with its role lists. The creator is
// always added as a manager so a collection can never be created unmanaged.
func (s *collectionService) CreateCollection(ctx context.Context, req dto.CreateCollectionRequest, creator *domain.User) (*domain.Collection, error) {
	if !creator.IsAdministrator() && !creator.InGroup(domain.GroupManager) {
		return nil, apperrors.ErrForbidden
	}

	managers := req.Managers
	if !slices.Contains(managers, creator.UserID) {
		managers = append(managers, creator.UserID)
	}

	now := time.Now()
	collection := domain.Collection{
		CollectionID: uuid.NewString(),
		Name:         req.Name,
		Managers:     managers,
		Editors:      req.Editors,
		Depositors:   req.Depositors,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}
	if err := s.collectionRepo.CreateCollection(ctx, collection); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	s.logger.Info("collection created",
		slog.String("collection_id", collection.CollectionID),
		slog.String("name", collection.Name))
	return &collection, nil
}

// GetCollectionByID retrieves a collection with its role lists.
func (s *collectionService) GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	return s.collectionRepo.FindCollectionByID(ctx, collectionID)
}
