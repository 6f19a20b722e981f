package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
)

// VersioningService is the SCD Type 2 layer: dimension attribute history as
// an append-only sequence of [ValidFrom, ValidTo) intervals per surrogate
// key. Point-in-time joins resolve through GetAsOf, never through the latest
// row, so a later attribute change cannot retroactively alter historical
// reports.
type VersioningService struct {
	versionRepo repositories.VersionRepositoryFacade
}

// NewVersioningService creates a new VersioningService.
func NewVersioningService(versionRepo repositories.VersionRepositoryFacade) *VersioningService {
	return &VersioningService{versionRepo: versionRepo}
}

// RecordChange applies one attribute change in a single transaction: lock the
// active version, close it at the effective date, insert the new open-ended
// version starting there. Identical attributes are a no-op; an effective date
// equal to the active version's start replaces its attributes in place rather
// than leaving a zero-length interval.
func (s *VersioningService) RecordChange(ctx context.Context, dimension string, surrogateID int64, attributes map[string]string, effectiveDate time.Time) (*domain.DimensionVersion, error) {
	if dimension == "" {
		return nil, fmt.Errorf("%w: dimension must not be empty", apperrors.ErrValidation)
	}
	if surrogateID <= 0 {
		return nil, fmt.Errorf("%w: surrogate id must be positive", apperrors.ErrValidation)
	}
	if len(attributes) == 0 {
		return nil, fmt.Errorf("%w: attributes must not be empty", apperrors.ErrValidation)
	}
	if effectiveDate.IsZero() {
		return nil, fmt.Errorf("%w: effective date must be set", apperrors.ErrValidation)
	}
	effective := truncateToDate(effectiveDate)

	tx, err := s.versionRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin versioning transaction: %w", err)
	}
	defer func() {
		// Safe after commit; pgx treats rollback of a done tx as a no-op error.
		_ = s.versionRepo.Rollback(ctx, tx)
	}()

	active, err := s.versionRepo.FindActiveVersionForUpdate(ctx, tx, dimension, surrogateID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read active version: %w", err)
	}

	var version domain.DimensionVersion
	switch {
	case active == nil:
		// First version ever for this surrogate key.
		version = domain.DimensionVersion{
			Dimension:   dimension,
			SurrogateID: surrogateID,
			Attributes:  attributes,
			ValidFrom:   effective,
			ValidTo:     domain.OpenEndedValidTo,
		}
		version.VersionID, err = s.versionRepo.InsertVersion(ctx, tx, version)
		if err != nil {
			return nil, fmt.Errorf("failed to insert first version: %w", err)
		}

	case maps.Equal(active.Attributes, attributes):
		// Nothing changed; history stays as is.
		return active, nil

	case effective.Before(active.ValidFrom):
		return nil, fmt.Errorf("%w: effective date %s predates active version start %s",
			apperrors.ErrValidation, effective.Format(dateLayout), active.ValidFrom.Format(dateLayout))

	case effective.Equal(active.ValidFrom):
		if err := s.versionRepo.UpdateVersionAttributes(ctx, tx, active.VersionID, attributes); err != nil {
			return nil, fmt.Errorf("failed to replace same-day version attributes: %w", err)
		}
		version = *active
		version.Attributes = attributes

	default:
		if err := s.versionRepo.CloseVersion(ctx, tx, active.VersionID, effective); err != nil {
			return nil, fmt.Errorf("failed to close active version: %w", err)
		}
		version = domain.DimensionVersion{
			Dimension:   dimension,
			SurrogateID: surrogateID,
			Attributes:  attributes,
			ValidFrom:   effective,
			ValidTo:     domain.OpenEndedValidTo,
		}
		version.VersionID, err = s.versionRepo.InsertVersion(ctx, tx, version)
		if err != nil {
			return nil, fmt.Errorf("failed to insert new version: %w", err)
		}
	}

	if err := s.versionRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit versioning transaction: %w", err)
	}
	return &version, nil
}

// GetAsOf returns the version whose interval contains asOf. Two candidate
// rows at the same instant is a data-integrity error, not a valid state.
func (s *VersioningService) GetAsOf(ctx context.Context, dimension string, surrogateID int64, asOf time.Time) (*domain.DimensionVersion, error) {
	versions, err := s.versionRepo.FindVersionsAt(ctx, dimension, surrogateID, truncateToDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to read versions as of %s: %w", asOf.Format(dateLayout), err)
	}
	switch len(versions) {
	case 0:
		return nil, fmt.Errorf("%w: no version of %s/%d covers %s",
			apperrors.ErrNotFound, dimension, surrogateID, asOf.Format(dateLayout))
	case 1:
		return &versions[0], nil
	default:
		return nil, fmt.Errorf("%w: %d overlapping versions of %s/%d at %s",
			apperrors.ErrIntegrityViolation, len(versions), dimension, surrogateID, asOf.Format(dateLayout))
	}
}

// History returns the full version sequence ordered by ValidFrom.
func (s *VersioningService) History(ctx context.Context, dimension string, surrogateID int64) ([]domain.DimensionVersion, error) {
	versions, err := s.versionRepo.ListVersions(ctx, dimension, surrogateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list version history: %w", err)
	}
	if versions == nil {
		return []domain.DimensionVersion{}, nil
	}
	return versions, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
