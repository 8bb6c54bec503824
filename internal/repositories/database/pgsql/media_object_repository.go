package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	"github.com/avstream/media_access_app/internal/models"
	"github.com/avstream/media_access_app/internal/utils/mapping"
)

type PgxMediaObjectRepository struct {
	BaseRepository
}

// newPgxMediaObjectRepository creates a new instance of PgxMediaObjectRepository
func newPgxMediaObjectRepository(db *pgxpool.Pool) portsrepo.MediaObjectRepository {
	return &PgxMediaObjectRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxMediaObjectRepository implements portsrepo.MediaObjectRepository
var _ portsrepo.MediaObjectRepository = (*PgxMediaObjectRepository)(nil)

const (
	mediaObjectsTable = "media_objects"
	masterFilesTable  = "master_files"

	selectMediaObjectFields = `
		media_object_id, collection_id, title, published, read_groups,
		created_at, created_by, last_updated_at, last_updated_by
	`

	insertMediaObjectQuery = `
		INSERT INTO ` + mediaObjectsTable + ` (
			media_object_id, collection_id, title, published, read_groups,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	mediaObjectExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM ` + mediaObjectsTable + ` WHERE media_object_id = $1)
	`

	findMediaObjectByIDQuery = `
		SELECT ` + selectMediaObjectFields + `
		FROM ` + mediaObjectsTable + `
		WHERE media_object_id = $1
	`

	setPublishedQuery = `
		UPDATE ` + mediaObjectsTable + `
		SET published = $2, last_updated_at = NOW()
		WHERE media_object_id = $1
	`

	// The membership guard lives in the same statement as the append so two
	// concurrent adders cannot both pass a separate check and duplicate the
	// entry.
	addReadGroupQuery = `
		UPDATE ` + mediaObjectsTable + `
		SET read_groups = array_append(read_groups, $2), last_updated_at = NOW()
		WHERE media_object_id = $1 AND NOT ($2 = ANY(read_groups))
	`

	removeReadGroupQuery = `
		UPDATE ` + mediaObjectsTable + `
		SET read_groups = array_remove(read_groups, $2), last_updated_at = NOW()
		WHERE media_object_id = $1
	`

	insertMasterFileQuery = `
		INSERT INTO ` + masterFilesTable + ` (
			master_file_id, media_object_id, label
		) VALUES ($1, $2, $3)
	`

	findMasterFileByIDQuery = `
		SELECT master_file_id, media_object_id, label
		FROM ` + masterFilesTable + `
		WHERE master_file_id = $1
	`
)

// CreateMediaObject persists a new media object.
func (r *PgxMediaObjectRepository) CreateMediaObject(ctx context.Context, mediaObject domain.MediaObject) error {
	modelMO := mapping.ToModelMediaObject(mediaObject)
	if modelMO.ReadGroups == nil {
		modelMO.ReadGroups = []string{}
	}
	_, err := r.Pool.Exec(ctx, insertMediaObjectQuery,
		modelMO.MediaObjectID,
		modelMO.CollectionID,
		modelMO.Title,
		modelMO.Published,
		modelMO.ReadGroups,
		modelMO.CreatedAt,
		modelMO.CreatedBy,
		modelMO.LastUpdatedAt,
		modelMO.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert media object: %w", err)
	}
	return nil
}

// MediaObjectExists reports whether a media object with the id exists.
func (r *PgxMediaObjectRepository) MediaObjectExists(ctx context.Context, mediaObjectID string) (bool, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx, mediaObjectExistsQuery, mediaObjectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check media object existence: %w", err)
	}
	return exists, nil
}

// FindMediaObjectByID retrieves a media object by id.
func (r *PgxMediaObjectRepository) FindMediaObjectByID(ctx context.Context, mediaObjectID string) (*domain.MediaObject, error) {
	var modelMO models.MediaObject
	err := r.Pool.QueryRow(ctx, findMediaObjectByIDQuery, mediaObjectID).Scan(
		&modelMO.MediaObjectID,
		&modelMO.CollectionID,
		&modelMO.Title,
		&modelMO.Published,
		&modelMO.ReadGroups,
		&modelMO.CreatedAt,
		&modelMO.CreatedBy,
		&modelMO.LastUpdatedAt,
		&modelMO.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find media object %s: %w", mediaObjectID, err)
	}
	domainMO := mapping.ToDomainMediaObject(modelMO)
	return &domainMO, nil
}

// SetPublished updates the publication flag.
func (r *PgxMediaObjectRepository) SetPublished(ctx context.Context, mediaObjectID string, published bool) error {
	cmdTag, err := r.Pool.Exec(ctx, setPublishedQuery, mediaObjectID, published)
	if err != nil {
		return fmt.Errorf("failed to set published flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddReadGroup inserts the group into the object's read-group list if absent.
func (r *PgxMediaObjectRepository) AddReadGroup(ctx context.Context, mediaObjectID, group string) error {
	_, err := r.Pool.Exec(ctx, addReadGroupQuery, mediaObjectID, group)
	if err != nil {
		return fmt.Errorf("failed to add read group: %w", err)
	}
	return nil
}

// RemoveReadGroup removes every occurrence of the group from the object's
// read-group list.
func (r *PgxMediaObjectRepository) RemoveReadGroup(ctx context.Context, mediaObjectID, group string) error {
	_, err := r.Pool.Exec(ctx, removeReadGroupQuery, mediaObjectID, group)
	if err != nil {
		return fmt.Errorf("failed to remove read group: %w", err)
	}
	return nil
}

// CreateMasterFile persists a new master file under a media object.
func (r *PgxMediaObjectRepository) CreateMasterFile(ctx context.Context, masterFile domain.MasterFile) error {
	modelMF := mapping.ToModelMasterFile(masterFile)
	_, err := r.Pool.Exec(ctx, insertMasterFileQuery,
		modelMF.MasterFileID,
		modelMF.MediaObjectID,
		modelMF.Label,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert master file: %w", err)
	}
	return nil
}

// FindMasterFileByID retrieves a master file by id.
func (r *PgxMediaObjectRepository) FindMasterFileByID(ctx context.Context, masterFileID string) (*domain.MasterFile, error) {
	var modelMF models.MasterFile
	err := r.Pool.QueryRow(ctx, findMasterFileByIDQuery, masterFileID).Scan(
		&modelMF.MasterFileID,
		&modelMF.MediaObjectID,
		&modelMF.Label,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find master file %s: %w", masterFileID, err)
	}
	domainMF := mapping.ToDomainMasterFile(modelMF)
	return &domainMF, nil
}
