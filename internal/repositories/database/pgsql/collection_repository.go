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

type PgxCollectionRepository struct {
	BaseRepository
}

// newPgxCollectionRepository creates a new instance of PgxCollectionRepository
func newPgxCollectionRepository(db *pgxpool.Pool) portsrepo.CollectionRepository {
	return &PgxCollectionRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxCollectionRepository implements portsrepo.CollectionRepository
var _ portsrepo.CollectionRepository = (*PgxCollectionRepository)(nil)

const (
	collectionsTable = "collections"

	selectCollectionFields = `
		collection_id, name, managers, editors, depositors,
		created_at, created_by, last_updated_at, last_updated_by
	`

	insertCollectionQuery = `
		INSERT INTO ` + collectionsTable + ` (
			collection_id, name, managers, editors, depositors,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	findCollectionByIDQuery = `
		SELECT ` + selectCollectionFields + `
		FROM ` + collectionsTable + `
		WHERE collection_id = $1
	`

	userIsMemberOfAnyCollectionQuery = `
		SELECT EXISTS(
			SELECT 1 FROM ` + collectionsTable + `
			WHERE $1 = ANY(managers) OR $1 = ANY(editors) OR $1 = ANY(depositors)
		)
	`
)

// CreateCollection persists a new collection.
func (r *PgxCollectionRepository) CreateCollection(ctx context.Context, collection domain.Collection) error {
	modelCollection := mapping.ToModelCollection(collection)
	if modelCollection.Managers == nil {
		modelCollection.Managers = []string{}
	}
	if modelCollection.Editors == nil {
		modelCollection.Editors = []string{}
	}
	if modelCollection.Depositors == nil {
		modelCollection.Depositors = []string{}
	}
	_, err := r.Pool.Exec(ctx, insertCollectionQuery,
		modelCollection.CollectionID,
		modelCollection.Name,
		modelCollection.Managers,
		modelCollection.Editors,
		modelCollection.Depositors,
		modelCollection.CreatedAt,
		modelCollection.CreatedBy,
		modelCollection.LastUpdatedAt,
		modelCollection.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

// FindCollectionByID retrieves a collection with its role lists.
func (r *PgxCollectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	var modelCollection models.Collection
	err := r.Pool.QueryRow(ctx, findCollectionByIDQuery, collectionID).Scan(
		&modelCollection.CollectionID,
		&modelCollection.Name,
		&modelCollection.Managers,
		&modelCollection.Editors,
		&modelCollection.Depositors,
		&modelCollection.CreatedAt,
		&modelCollection.CreatedBy,
		&modelCollection.LastUpdatedAt,
		&modelCollection.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find collection %s: %w", collectionID, err)
	}
	domainCollection := mapping.ToDomainCollection(modelCollection)
	return &domainCollection, nil
}

// UserIsMemberOfAnyCollection reports whether the user holds any role on any
// collection.
func (r *PgxCollectionRepository) UserIsMemberOfAnyCollection(ctx context.Context, userID string) (bool, error) {
	var isMember bool
	if err := r.Pool.QueryRow(ctx, userIsMemberOfAnyCollectionQuery, userID).Scan(&isMember); err != nil {
		return false, fmt.Errorf("failed to check collection membership: %w", err)
	}
	return isMember, nil
}
