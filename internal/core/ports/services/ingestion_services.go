package services

import (
	"context"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
)

// IngestionSvcFacade pulls one source day from the upstream providers and
// feeds it through the loader. Both providers are fetched before anything is
// loaded, so a failed fetch never leaves a half-committed inconsistent day.
type IngestionSvcFacade interface {
	RunDay(ctx context.Context, day time.Time) (*domain.IngestionSummary, error)
}
