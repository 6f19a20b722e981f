package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
)

// PriceReader defines read operations for the stock price fact table
type PriceReader interface {
	// FindPrice retrieves the price fact for one (stock, trade date) pair.
	FindPrice(ctx context.Context, stockID int64, tradeDate time.Time) (*domain.StockPrice, error)
}

// PriceWriter defines write operations for the stock price fact table
type PriceWriter interface {
	// UpsertPrice inserts or overwrites the fact row keyed by
	// (StockID, TradeDate) and reports what happened to the stored row.
	// Re-running an identical record is a storage no-op.
	UpsertPrice(ctx context.Context, price domain.StockPrice) (domain.UpsertOutcome, error)
}

// PriceRepositoryFacade combines all price fact repository interfaces
type PriceRepositoryFacade interface {
	PriceReader
	PriceWriter
}

// RateReader defines read operations for the exchange rate fact table
type RateReader interface {
	// FindRate retrieves the rate fact for one (date, from, to) triple.
	FindRate(ctx context.Context, rateDate time.Time, fromCurrencyID, toCurrencyID int64) (*domain.ExchangeRate, error)
}

// RateWriter defines write operations for the exchange rate fact table
type RateWriter interface {
	// UpsertRate inserts or overwrites the fact row keyed by
	// (RateDate, FromCurrencyID, ToCurrencyID).
	UpsertRate(ctx context.Context, rate domain.ExchangeRate) (domain.UpsertOutcome, error)
}

// RateRepositoryFacade combines all rate fact repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}

// ConversionReader is the read-only join the conversion engine runs at query
// time: price facts left-joined to same-day base->target rate facts. It never
// writes; converted values are not persisted anywhere.
type ConversionReader interface {
	// ListPricesWithRates returns, ordered by (trade date, ticker), every
	// price fact in [from, to] for the given tickers (all stocks when the
	// slice is empty), each carrying the same-day rate for the requested
	// currency pair when one exists.
	ListPricesWithRates(ctx context.Context, from, to time.Time, tickers []string, fromCurrencyID, toCurrencyID int64) ([]domain.PriceWithRate, error)
}
