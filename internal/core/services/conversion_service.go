package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ConversionService converts stored OHLC facts into a target currency. It is
// a pure function of the fact tables at query time: every call re-reads the
// price/rate join, so late-arriving or corrected rates show up in all reads
// without any invalidation. Converted values are never persisted.
//
// Rates apply only in their stored direction. A reverse-pair row does not
// stand in for the forward pair; without the forward row the converted fields
// come back null.
type ConversionService struct {
	dimensions     portssvc.DimensionSvcFacade
	conversionRepo repositories.ConversionReader
}

// NewConversionService creates a new ConversionService.
func NewConversionService(dimensions portssvc.DimensionSvcFacade, conversionRepo repositories.ConversionReader) *ConversionService {
	return &ConversionService{
		dimensions:     dimensions,
		conversionRepo: conversionRepo,
	}
}

// Convert returns the converted row for one (trade date, ticker) pair.
// Conversion is defined only where a price fact exists; a missing price is
// ErrNotFound, while a missing rate still yields the row with null converted
// fields.
func (s *ConversionService) Convert(ctx context.Context, tradeDate time.Time, ticker, targetCurrencyCode string) (*domain.ConvertedPrice, error) {
	rows, err := s.ConvertRange(ctx, tradeDate, tradeDate, []string{ticker}, targetCurrencyCode)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no price for %s on %s", apperrors.ErrNotFound, ticker, tradeDate.Format(dateLayout))
	}
	return &rows[0], nil
}

// ConvertRange converts every price fact in [from, to] for the given tickers
// (all stocks when empty) into the target currency.
func (s *ConversionService) ConvertRange(ctx context.Context, from, to time.Time, tickers []string, targetCurrencyCode string) ([]domain.ConvertedPrice, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s precedes start %s", apperrors.ErrValidation, to.Format(dateLayout), from.Format(dateLayout))
	}

	base, err := s.dimensions.BaseCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine base currency: %w", err)
	}

	target, err := s.dimensions.GetCurrencyByCode(ctx, targetCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("target currency %s: %w", targetCurrencyCode, err)
	}

	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			normalized = append(normalized, t)
		}
	}

	rows, err := s.conversionRepo.ListPricesWithRates(ctx, from, to, normalized, base.CurrencyID, target.CurrencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read prices with rates: %w", err)
	}

	identity := base.CurrencyID == target.CurrencyID
	converted := make([]domain.ConvertedPrice, len(rows))
	for i, row := range rows {
		converted[i] = convertRow(row, base.CurrencyCode, target.CurrencyCode, identity)
	}
	return converted, nil
}

// convertRow derives one converted price. Identity conversion copies the raw
// OHLC without touching rates; otherwise the same-day forward rate multiplies
// each field in decimal arithmetic. No rate means null converted fields.
func convertRow(row domain.PriceWithRate, baseCode, targetCode string, identity bool) domain.ConvertedPrice {
	cp := domain.ConvertedPrice{
		TradeDate:      row.TradeDate,
		Ticker:         row.Ticker,
		BaseCurrency:   baseCode,
		TargetCurrency: targetCode,
		Open:           row.Open,
		High:           row.High,
		Low:            row.Low,
		Close:          row.Close,
		Volume:         row.Volume,
	}

	switch {
	case identity:
		cp.OpenConverted = decimal.NewNullDecimal(row.Open)
		cp.HighConverted = decimal.NewNullDecimal(row.High)
		cp.LowConverted = decimal.NewNullDecimal(row.Low)
		cp.CloseConverted = decimal.NewNullDecimal(row.Close)
	case row.Rate.Valid:
		rate := row.Rate.Decimal
		cp.OpenConverted = decimal.NewNullDecimal(row.Open.Mul(rate))
		cp.HighConverted = decimal.NewNullDecimal(row.High.Mul(rate))
		cp.LowConverted = decimal.NewNullDecimal(row.Low.Mul(rate))
		cp.CloseConverted = decimal.NewNullDecimal(row.Close.Mul(rate))
	}
	// No same-day rate: converted fields stay invalid (null), the row is
	// still emitted so one missing pair never blocks unrelated rows.

	return cp
}
