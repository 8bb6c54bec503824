package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	"github.com/avstream/media_access_app/internal/models"
	"github.com/avstream/media_access_app/internal/utils/mapping"
)

type PgxAccessTokenRepository struct {
	BaseRepository
}

// newPgxAccessTokenRepository creates a new instance of PgxAccessTokenRepository
func newPgxAccessTokenRepository(db *pgxpool.Pool) portsrepo.AccessTokenRepository {
	return &PgxAccessTokenRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxAccessTokenRepository implements portsrepo.AccessTokenRepository
var _ portsrepo.AccessTokenRepository = (*PgxAccessTokenRepository)(nil)

const (
	accessTokensTable = "access_tokens"

	selectAccessTokenFields = `
		access_token_id, token, media_object_id, user_id, description,
		expiration, allow_streaming, allow_download, revoked, expired,
		created_at, created_by, last_updated_at, last_updated_by
	`

	insertAccessTokenQuery = `
		INSERT INTO ` + accessTokensTable + ` (
			access_token_id, token, media_object_id, user_id, description,
			expiration, allow_streaming, allow_download, revoked, expired,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	findAccessTokenByIDQuery = `
		SELECT ` + selectAccessTokenFields + `
		FROM ` + accessTokensTable + `
		WHERE access_token_id = $1
	`

	findAccessTokenByTokenQuery = `
		SELECT ` + selectAccessTokenFields + `
		FROM ` + accessTokensTable + `
		WHERE token = $1
	`

	findUnexpiredAccessTokensQuery = `
		SELECT ` + selectAccessTokenFields + `
		FROM ` + accessTokensTable + `
		WHERE expired = FALSE
		ORDER BY expiration ASC, access_token_id ASC
	`

	// The token string, media object id and expiration columns are immutable
	// after creation and deliberately absent from the update statement.
	updateAccessTokenQuery = `
		UPDATE ` + accessTokensTable + `
		SET
			description = $2,
			allow_streaming = $3,
			allow_download = $4,
			revoked = $5,
			expired = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE access_token_id = $1
	`
)

// statusPredicate returns the WHERE fragment selecting tokens in the given
// lifecycle state. Expiry is judged against the clock, not just the cached
// flag, so a lapsed token lists as expired before the cleanup sweep reaches
// it.
func statusPredicate(status domain.TokenStatus) string {
	switch status {
	case domain.TokenStatusActive:
		return "NOT revoked AND NOT expired AND expiration > NOW()"
	case domain.TokenStatusExpired:
		return "NOT revoked AND (expired OR expiration <= NOW())"
	case domain.TokenStatusRevoked:
		return "revoked"
	default:
		return "TRUE"
	}
}

// CreateAccessToken persists a new token.
func (r *PgxAccessTokenRepository) CreateAccessToken(ctx context.Context, token domain.AccessToken) error {
	modelToken := mapping.ToModelAccessToken(token)
	_, err := r.Pool.Exec(ctx, insertAccessTokenQuery,
		modelToken.AccessTokenID,
		modelToken.Token,
		modelToken.MediaObjectID,
		modelToken.UserID,
		modelToken.Description,
		modelToken.Expiration,
		modelToken.AllowStreaming,
		modelToken.AllowDownload,
		modelToken.Revoked,
		modelToken.Expired,
		modelToken.CreatedAt,
		modelToken.CreatedBy,
		modelToken.LastUpdatedAt,
		modelToken.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert access token: %w", err)
	}
	return nil
}

// FindAccessTokenByID retrieves a token by its primary key.
func (r *PgxAccessTokenRepository) FindAccessTokenByID(ctx context.Context, accessTokenID string) (*domain.AccessToken, error) {
	row := r.Pool.QueryRow(ctx, findAccessTokenByIDQuery, accessTokenID)
	return scanDomainAccessToken(row)
}

// FindAccessTokenByToken retrieves a token by its token string.
func (r *PgxAccessTokenRepository) FindAccessTokenByToken(ctx context.Context, tokenString string) (*domain.AccessToken, error) {
	row := r.Pool.QueryRow(ctx, findAccessTokenByTokenQuery, tokenString)
	return scanDomainAccessToken(row)
}

// ListAccessTokens returns up to limit+1 tokens matching the status filter,
// ordered by (expiration, access_token_id) and starting after the cursor when
// one is given.
func (r *PgxAccessTokenRepository) ListAccessTokens(ctx context.Context, status domain.TokenStatus, limit int, afterExpiration *time.Time, afterID string) ([]domain.AccessToken, error) {
	query := `
		SELECT ` + selectAccessTokenFields + `
		FROM ` + accessTokensTable + `
		WHERE ` + statusPredicate(status)
	args := []interface{}{}

	if afterExpiration != nil {
		query += fmt.Sprintf(" AND (expiration, access_token_id) > ($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, *afterExpiration, afterID)
	}
	query += fmt.Sprintf(" ORDER BY expiration ASC, access_token_id ASC LIMIT $%d", len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query access tokens: %w", err)
	}
	defer rows.Close()

	modelTokens := []models.AccessToken{}
	for rows.Next() {
		modelToken, err := scanAccessToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access token row: %w", err)
		}
		modelTokens = append(modelTokens, *modelToken)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating access token rows: %w", rows.Err())
	}

	return mapping.ToDomainAccessTokenSlice(modelTokens), nil
}

// FindUnexpiredAccessTokens returns all tokens whose expired flag is still
// false, for the cleanup sweep.
func (r *PgxAccessTokenRepository) FindUnexpiredAccessTokens(ctx context.Context) ([]domain.AccessToken, error) {
	rows, err := r.Pool.Query(ctx, findUnexpiredAccessTokensQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query unexpired access tokens: %w", err)
	}
	defer rows.Close()

	modelTokens := []models.AccessToken{}
	for rows.Next() {
		modelToken, err := scanAccessToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access token row: %w", err)
		}
		modelTokens = append(modelTokens, *modelToken)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating access token rows: %w", rows.Err())
	}

	return mapping.ToDomainAccessTokenSlice(modelTokens), nil
}

// UpdateAccessToken persists the mutable fields of a token.
func (r *PgxAccessTokenRepository) UpdateAccessToken(ctx context.Context, token domain.AccessToken) error {
	modelToken := mapping.ToModelAccessToken(token)
	cmdTag, err := r.Pool.Exec(ctx, updateAccessTokenQuery,
		modelToken.AccessTokenID,
		modelToken.Description,
		modelToken.AllowStreaming,
		modelToken.AllowDownload,
		modelToken.Revoked,
		modelToken.Expired,
		modelToken.LastUpdatedAt,
		modelToken.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanAccessToken scans an access token from a row
func scanAccessToken(row pgx.Row) (*models.AccessToken, error) {
	var token models.AccessToken
	err := row.Scan(
		&token.AccessTokenID,
		&token.Token,
		&token.MediaObjectID,
		&token.UserID,
		&token.Description,
		&token.Expiration,
		&token.AllowStreaming,
		&token.AllowDownload,
		&token.Revoked,
		&token.Expired,
		&token.CreatedAt,
		&token.CreatedBy,
		&token.LastUpdatedAt,
		&token.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func scanDomainAccessToken(row pgx.Row) (*domain.AccessToken, error) {
	modelToken, err := scanAccessToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan access token: %w", err)
	}
	domainToken := mapping.ToDomainAccessToken(*modelToken)
	return &domainToken, nil
}
