package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Bounds of the NUMERIC(18,6) columns the facts land in. Values outside them
// are rejected before they reach the store.
const (
	maxFactDigits        = 18
	maxFactDecimalPlaces = 6
)

// LoaderService validates and upserts daily fact batches. Each record is
// handled independently: validation and integrity failures reject that record
// with a reason and the batch continues. Upserts are keyed by the natural
// composite key, so re-running the same source day is idempotent.
type LoaderService struct {
	dimensions portssvc.DimensionSvcFacade
	priceRepo  repositories.PriceRepositoryFacade
	rateRepo   repositories.RateRepositoryFacade
}

// NewLoaderService creates a new LoaderService.
func NewLoaderService(dimensions portssvc.DimensionSvcFacade, priceRepo repositories.PriceRepositoryFacade, rateRepo repositories.RateRepositoryFacade) *LoaderService {
	return &LoaderService{
		dimensions: dimensions,
		priceRepo:  priceRepo,
		rateRepo:   rateRepo,
	}
}

// LoadPrices validates and upserts a batch of daily OHLCV records.
func (s *LoaderService) LoadPrices(ctx context.Context, records []dto.PriceRecord) (domain.LoadResult, error) {
	var result domain.LoadResult

	for i, rec := range records {
		key := rec.Ticker + "@" + rec.TradeDate

		tradeDate, err := validatePriceRecord(rec)
		if err != nil {
			result.Reject(i, key, err.Error())
			continue
		}

		stockID, err := s.dimensions.ResolveStock(ctx, rec.Ticker, rec.CompanyName)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrIntegrityViolation) {
				result.Reject(i, key, err.Error())
				continue
			}
			return result, fmt.Errorf("failed to resolve stock for %s: %w", key, err)
		}

		outcome, err := s.priceRepo.UpsertPrice(ctx, domain.StockPrice{
			StockID:   stockID,
			TradeDate: tradeDate,
			Open:      rec.Open,
			High:      rec.High,
			Low:       rec.Low,
			Close:     rec.Close,
			Volume:    rec.Volume,
		})
		if err != nil {
			return result, fmt.Errorf("failed to upsert price for %s: %w", key, err)
		}
		result.Record(outcome)
	}

	return result, nil
}

// LoadRates validates and upserts a batch of daily exchange rate records.
func (s *LoaderService) LoadRates(ctx context.Context, records []dto.RateRecord) (domain.LoadResult, error) {
	var result domain.LoadResult

	for i, rec := range records {
		key := rec.FromCurrency + "->" + rec.ToCurrency + "@" + rec.RateDate

		rateDate, err := validateRateRecord(rec)
		if err != nil {
			result.Reject(i, key, err.Error())
			continue
		}

		fromID, err := s.dimensions.ResolveCurrency(ctx, rec.FromCurrency, "")
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrIntegrityViolation) {
				result.Reject(i, key, err.Error())
				continue
			}
			return result, fmt.Errorf("failed to resolve from-currency for %s: %w", key, err)
		}
		toID, err := s.dimensions.ResolveCurrency(ctx, rec.ToCurrency, "")
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrIntegrityViolation) {
				result.Reject(i, key, err.Error())
				continue
			}
			return result, fmt.Errorf("failed to resolve to-currency for %s: %w", key, err)
		}

		outcome, err := s.rateRepo.UpsertRate(ctx, domain.ExchangeRate{
			RateDate:       rateDate,
			FromCurrencyID: fromID,
			ToCurrencyID:   toID,
			Rate:           rec.Rate,
		})
		if err != nil {
			return result, fmt.Errorf("failed to upsert rate for %s: %w", key, err)
		}
		result.Record(outcome)
	}

	return result, nil
}

func validatePriceRecord(rec dto.PriceRecord) (time.Time, error) {
	tradeDate, err := time.Parse(dateLayout, rec.TradeDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: trade date %q is not a valid %s date", apperrors.ErrValidation, rec.TradeDate, dateLayout)
	}
	for _, field := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"open", rec.Open},
		{"high", rec.High},
		{"low", rec.Low},
		{"close", rec.Close},
	} {
		if field.value.IsNegative() {
			return time.Time{}, fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrValidation, field.name, field.value)
		}
		if err := validatePrecision(field.name, field.value); err != nil {
			return time.Time{}, err
		}
	}
	if rec.Volume < 0 {
		return time.Time{}, fmt.Errorf("%w: volume must not be negative, got %d", apperrors.ErrValidation, rec.Volume)
	}
	return tradeDate, nil
}

func validateRateRecord(rec dto.RateRecord) (time.Time, error) {
	rateDate, err := time.Parse(dateLayout, rec.RateDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: rate date %q is not a valid %s date", apperrors.ErrValidation, rec.RateDate, dateLayout)
	}
	// Codes are normalized by ResolveCurrency, so "usd"/"USD" would land on
	// the same dimension row. Compare the normalized forms here.
	if strings.ToUpper(strings.TrimSpace(rec.FromCurrency)) == strings.ToUpper(strings.TrimSpace(rec.ToCurrency)) {
		return time.Time{}, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !rec.Rate.IsPositive() {
		return time.Time{}, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrValidation, rec.Rate)
	}
	if err := validatePrecision("rate", rec.Rate); err != nil {
		return time.Time{}, err
	}
	return rateDate, nil
}

func validatePrecision(name string, value decimal.Decimal) error {
	if value.Exponent() < -maxFactDecimalPlaces {
		return fmt.Errorf("%w: %s has more than %d decimal places", apperrors.ErrValidation, name, maxFactDecimalPlaces)
	}
	if value.NumDigits() > maxFactDigits {
		return fmt.Errorf("%w: %s exceeds %d significant digits", apperrors.ErrValidation, name, maxFactDigits)
	}
	return nil
}
