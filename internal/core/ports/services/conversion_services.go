package services

import (
	"context"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
)

// ConversionSvcFacade converts stored OHLC facts into a target currency at
// query time. It is a pure function of the fact tables' current contents:
// nothing is cached or persisted, so late-arriving or corrected rates are
// reflected immediately in all reads.
type ConversionSvcFacade interface {
	// Convert returns the converted row for one (trade date, ticker) pair, or
	// apperrors.ErrNotFound when no price fact exists for it. A missing rate
	// yields a row with null converted fields, not an error.
	Convert(ctx context.Context, tradeDate time.Time, ticker, targetCurrencyCode string) (*domain.ConvertedPrice, error)

	// ConvertRange converts every price fact in [from, to] for the given
	// tickers (all stocks when empty) into the target currency.
	ConvertRange(ctx context.Context, from, to time.Time, tickers []string, targetCurrencyCode string) ([]domain.ConvertedPrice, error)
}
