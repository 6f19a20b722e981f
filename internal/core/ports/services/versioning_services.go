package services

import (
	"context"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
)

// VersioningSvcFacade is the SCD Type 2 layer for dimensions whose attributes
// change over time. Histories are append-only: a change closes the active
// version and opens a new one, never mutating past intervals.
type VersioningSvcFacade interface {
	// RecordChange applies an attribute change effective on the given date:
	// the active version's ValidTo closes at that date and a new open-ended
	// version starts there. Recording identical attributes is a no-op; a
	// change effective the same day the active version started replaces its
	// attributes in place.
	RecordChange(ctx context.Context, dimension string, surrogateID int64, attributes map[string]string, effectiveDate time.Time) (*domain.DimensionVersion, error)

	// GetAsOf returns the version whose interval contains asOf. Zero matches
	// is apperrors.ErrNotFound; more than one is apperrors.ErrIntegrityViolation.
	GetAsOf(ctx context.Context, dimension string, surrogateID int64, asOf time.Time) (*domain.DimensionVersion, error)

	// History returns the full version sequence ordered by ValidFrom.
	History(ctx context.Context, dimension string, surrogateID int64) ([]domain.DimensionVersion, error)
}
