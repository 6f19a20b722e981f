package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// VersionReader defines read operations for dimension attribute versions
type VersionReader interface {
	// FindVersionsAt retrieves every version whose validity interval contains
	// asOf. A well-formed history yields at most one; callers treat more than
	// one as an integrity violation, not a valid state.
	FindVersionsAt(ctx context.Context, dimension string, surrogateID int64, asOf time.Time) ([]domain.DimensionVersion, error)

	// ListVersions retrieves the full version history ordered by ValidFrom.
	ListVersions(ctx context.Context, dimension string, surrogateID int64) ([]domain.DimensionVersion, error)
}

// VersionWriter defines the transactional write operations the close-and-open
// versioning protocol is built from. All writers take the transaction so one
// attribute change is applied atomically.
type VersionWriter interface {
	// FindActiveVersionForUpdate locks and returns the open-ended version for
	// the surrogate key, or apperrors.ErrNotFound when none exists yet.
	FindActiveVersionForUpdate(ctx context.Context, tx pgx.Tx, dimension string, surrogateID int64) (*domain.DimensionVersion, error)

	// CloseVersion sets the version's ValidTo to the given date.
	CloseVersion(ctx context.Context, tx pgx.Tx, versionID int64, validTo time.Time) error

	// UpdateVersionAttributes replaces the attribute set of an existing
	// version in place (same-day corrections).
	UpdateVersionAttributes(ctx context.Context, tx pgx.Tx, versionID int64, attributes map[string]string) error

	// InsertVersion creates a new version row and returns its generated id.
	InsertVersion(ctx context.Context, tx pgx.Tx, version domain.DimensionVersion) (int64, error)
}

// VersionRepositoryFacade combines all version repository interfaces
type VersionRepositoryFacade interface {
	VersionReader
	VersionWriter
	TransactionManager
}
