package providers

import (
	"context"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/dto"
)

// PriceProvider is an upstream daily price source keyed by ticker and date
// range. Implementations own transport, bounded retries and backoff; an
// exhausted retry budget surfaces as apperrors.ErrUpstreamUnavailable.
type PriceProvider interface {
	FetchDailyPrices(ctx context.Context, ticker string, from, to time.Time) ([]dto.PriceRecord, error)
}

// RateProvider is an upstream exchange-rate source keyed by base currency and
// date range. Same retry contract as PriceProvider.
type RateProvider interface {
	FetchRates(ctx context.Context, baseCurrencyCode string, from, to time.Time) ([]dto.RateRecord, error)
}
