package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxVersionRepository implements the dimension version repository using
// pgxpool. Attribute sets live in a JSONB column; pgx marshals the
// map[string]string both ways.
type PgxVersionRepository struct {
	pool *pgxpool.Pool
}

// NewVersionRepository creates a new PgxVersionRepository.
func NewVersionRepository(pool *pgxpool.Pool) repositories.VersionRepositoryFacade {
	return &PgxVersionRepository{pool: pool}
}

// Begin starts a new database transaction.
func (r *PgxVersionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Commit commits a transaction.
func (r *PgxVersionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

// Rollback rolls back a transaction.
func (r *PgxVersionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// FindActiveVersionForUpdate locks and returns the open-ended version for the
// surrogate key. The row lock serializes concurrent changes to the same key's
// history without blocking other keys.
func (r *PgxVersionRepository) FindActiveVersionForUpdate(ctx context.Context, tx pgx.Tx, dimension string, surrogateID int64) (*domain.DimensionVersion, error) {
	query := `
		SELECT version_id, dimension, surrogate_id, attributes, valid_from, valid_to
		FROM dim_attribute_version
		WHERE dimension = $1 AND surrogate_id = $2 AND valid_to = '9999-12-31'
		FOR UPDATE;
	`
	version := &domain.DimensionVersion{}
	err := tx.QueryRow(ctx, query, dimension, surrogateID).Scan(
		&version.VersionID, &version.Dimension, &version.SurrogateID,
		&version.Attributes, &version.ValidFrom, &version.ValidTo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding active version of %s/%d: %w", dimension, surrogateID, err)
	}
	return version, nil
}

// CloseVersion sets the version's valid_to to the given date.
func (r *PgxVersionRepository) CloseVersion(ctx context.Context, tx pgx.Tx, versionID int64, validTo time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE dim_attribute_version SET valid_to = $2 WHERE version_id = $1;`, versionID, validTo)
	if err != nil {
		return fmt.Errorf("error closing version %d: %w", versionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateVersionAttributes replaces a version's attribute set in place.
func (r *PgxVersionRepository) UpdateVersionAttributes(ctx context.Context, tx pgx.Tx, versionID int64, attributes map[string]string) error {
	tag, err := tx.Exec(ctx, `UPDATE dim_attribute_version SET attributes = $2 WHERE version_id = $1;`, versionID, attributes)
	if err != nil {
		return fmt.Errorf("error updating attributes of version %d: %w", versionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// InsertVersion creates a new version row and returns its generated id.
func (r *PgxVersionRepository) InsertVersion(ctx context.Context, tx pgx.Tx, version domain.DimensionVersion) (int64, error) {
	query := `
		INSERT INTO dim_attribute_version (dimension, surrogate_id, attributes, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING version_id;
	`
	var versionID int64
	err := tx.QueryRow(ctx, query,
		version.Dimension, version.SurrogateID, version.Attributes, version.ValidFrom, version.ValidTo,
	).Scan(&versionID)
	if err != nil {
		return 0, fmt.Errorf("error inserting version of %s/%d: %w", version.Dimension, version.SurrogateID, err)
	}
	return versionID, nil
}

// FindVersionsAt retrieves every version whose [valid_from, valid_to)
// interval contains asOf. A healthy history returns at most one row; the
// service layer treats more as an integrity violation.
func (r *PgxVersionRepository) FindVersionsAt(ctx context.Context, dimension string, surrogateID int64, asOf time.Time) ([]domain.DimensionVersion, error) {
	query := `
		SELECT version_id, dimension, surrogate_id, attributes, valid_from, valid_to
		FROM dim_attribute_version
		WHERE dimension = $1 AND surrogate_id = $2
			AND valid_from <= $3 AND valid_to > $3
		ORDER BY valid_from;
	`
	return r.queryVersions(ctx, query, dimension, surrogateID, asOf)
}

// ListVersions retrieves the full history ordered by valid_from.
func (r *PgxVersionRepository) ListVersions(ctx context.Context, dimension string, surrogateID int64) ([]domain.DimensionVersion, error) {
	query := `
		SELECT version_id, dimension, surrogate_id, attributes, valid_from, valid_to
		FROM dim_attribute_version
		WHERE dimension = $1 AND surrogate_id = $2
		ORDER BY valid_from;
	`
	return r.queryVersions(ctx, query, dimension, surrogateID)
}

func (r *PgxVersionRepository) queryVersions(ctx context.Context, query string, args ...any) ([]domain.DimensionVersion, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dimension versions: %w", err)
	}
	defer rows.Close()

	versions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DimensionVersion, error) {
		var version domain.DimensionVersion
		err := row.Scan(
			&version.VersionID, &version.Dimension, &version.SurrogateID,
			&version.Attributes, &version.ValidFrom, &version.ValidTo,
		)
		return version, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dimension versions: %w", err)
	}
	return versions, nil
}
