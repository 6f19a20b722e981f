package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/providers"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
)

// IngestionService pulls one source day from the configured providers and
// runs it through the loader. Fetching happens before any loading, so a
// provider failure surfaces as a terminal error for the day without leaving
// a partially fabricated load behind.
type IngestionService struct {
	priceProvider providers.PriceProvider
	rateProvider  providers.RateProvider
	loader        portssvc.LoaderSvcFacade
	dimensions    portssvc.DimensionSvcFacade
	tickers       []string
}

// NewIngestionService creates a new IngestionService for the configured
// ticker universe.
func NewIngestionService(priceProvider providers.PriceProvider, rateProvider providers.RateProvider, loader portssvc.LoaderSvcFacade, dimensions portssvc.DimensionSvcFacade, tickers []string) *IngestionService {
	return &IngestionService{
		priceProvider: priceProvider,
		rateProvider:  rateProvider,
		loader:        loader,
		dimensions:    dimensions,
		tickers:       tickers,
	}
}

// RunDay ingests prices and rates for one source day.
func (s *IngestionService) RunDay(ctx context.Context, day time.Time) (*domain.IngestionSummary, error) {
	day = truncateToDate(day)

	base, err := s.dimensions.BaseCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine base currency for ingestion: %w", err)
	}

	var priceRecords []dto.PriceRecord
	for _, ticker := range s.tickers {
		records, err := s.priceProvider.FetchDailyPrices(ctx, ticker, day, day)
		if err != nil {
			return nil, fmt.Errorf("price fetch for %s on %s failed: %w", ticker, day.Format(dateLayout), err)
		}
		priceRecords = append(priceRecords, records...)
	}

	rateRecords, err := s.rateProvider.FetchRates(ctx, base.CurrencyCode, day, day)
	if err != nil {
		return nil, fmt.Errorf("rate fetch for %s on %s failed: %w", base.CurrencyCode, day.Format(dateLayout), err)
	}

	priceResult, err := s.loader.LoadPrices(ctx, priceRecords)
	if err != nil {
		return nil, fmt.Errorf("price load for %s failed: %w", day.Format(dateLayout), err)
	}
	rateResult, err := s.loader.LoadRates(ctx, rateRecords)
	if err != nil {
		return nil, fmt.Errorf("rate load for %s failed: %w", day.Format(dateLayout), err)
	}

	return &domain.IngestionSummary{Day: day, Prices: priceResult, Rates: rateResult}, nil
}
