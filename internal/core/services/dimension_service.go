package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/SscSPs/stock_warehouse/internal/dto"
)

// DimensionService resolves natural keys (ticker, currency code) to stable
// surrogate ids and manages the dimension tables. Resolution is
// insert-or-retrieve: the store's unique constraint on the natural key is the
// arbiter under concurrent loaders, not a lock. On a conflicting insert the
// loser re-reads and adopts the winner's id, so the same key never yields two
// surrogate ids.
type DimensionService struct {
	stockRepo    repositories.StockRepositoryFacade
	currencyRepo repositories.CurrencyRepositoryFacade
}

// NewDimensionService creates a new DimensionService.
func NewDimensionService(stockRepo repositories.StockRepositoryFacade, currencyRepo repositories.CurrencyRepositoryFacade) *DimensionService {
	return &DimensionService{
		stockRepo:    stockRepo,
		currencyRepo: currencyRepo,
	}
}

// ResolveStock returns the surrogate id for a ticker, creating the dimension
// row on first sight. An existing row whose company name conflicts with a
// non-empty incoming one fails with ErrIntegrityViolation: dimension rows are
// immutable once created and a natural key must not drift between
// representations.
func (s *DimensionService) ResolveStock(ctx context.Context, ticker, companyName string) (int64, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return 0, fmt.Errorf("%w: ticker must not be empty", apperrors.ErrValidation)
	}

	existing, err := s.stockRepo.FindStockByTicker(ctx, ticker)
	if err == nil {
		return checkStockConsistency(existing, companyName)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, fmt.Errorf("failed to look up stock %s: %w", ticker, err)
	}

	stockID, err := s.stockRepo.InsertStock(ctx, domain.Stock{Ticker: ticker, CompanyName: companyName})
	if err == nil {
		return stockID, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return 0, fmt.Errorf("failed to insert stock %s: %w", ticker, err)
	}

	// A parallel loader won the insert race; adopt its surrogate id.
	winner, err := s.stockRepo.FindStockByTicker(ctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to re-read stock %s after conflict: %w", ticker, err)
	}
	return checkStockConsistency(winner, companyName)
}

func checkStockConsistency(stock *domain.Stock, companyName string) (int64, error) {
	if companyName != "" && stock.CompanyName != "" && stock.CompanyName != companyName {
		return 0, fmt.Errorf("%w: ticker %s already mapped to company %q, got %q",
			apperrors.ErrIntegrityViolation, stock.Ticker, stock.CompanyName, companyName)
	}
	return stock.StockID, nil
}

// ResolveCurrency is ResolveStock's counterpart for ISO currency codes.
func (s *DimensionService) ResolveCurrency(ctx context.Context, currencyCode, currencyName string) (int64, error) {
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(currencyCode) != 3 {
		return 0, fmt.Errorf("%w: currency code must be 3 letters, got %q", apperrors.ErrValidation, currencyCode)
	}

	existing, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err == nil {
		return checkCurrencyConsistency(existing, currencyName)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, fmt.Errorf("failed to look up currency %s: %w", currencyCode, err)
	}

	currencyID, err := s.currencyRepo.InsertCurrency(ctx, domain.Currency{CurrencyCode: currencyCode, CurrencyName: currencyName})
	if err == nil {
		return currencyID, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return 0, fmt.Errorf("failed to insert currency %s: %w", currencyCode, err)
	}

	winner, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return 0, fmt.Errorf("failed to re-read currency %s after conflict: %w", currencyCode, err)
	}
	return checkCurrencyConsistency(winner, currencyName)
}

func checkCurrencyConsistency(currency *domain.Currency, currencyName string) (int64, error) {
	if currencyName != "" && currency.CurrencyName != "" && currency.CurrencyName != currencyName {
		return 0, fmt.Errorf("%w: currency %s already mapped to name %q, got %q",
			apperrors.ErrIntegrityViolation, currency.CurrencyCode, currency.CurrencyName, currencyName)
	}
	return currency.CurrencyID, nil
}

// GetStockByTicker retrieves a stock dimension row by its natural key.
func (s *DimensionService) GetStockByTicker(ctx context.Context, ticker string) (*domain.Stock, error) {
	stock, err := s.stockRepo.FindStockByTicker(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
	if err != nil {
		return nil, fmt.Errorf("failed to get stock by ticker: %w", err)
	}
	return stock, nil
}

// ListStocks retrieves all stock dimension rows.
func (s *DimensionService) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	stocks, err := s.stockRepo.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	if stocks == nil {
		return []domain.Stock{}, nil
	}
	return stocks, nil
}

// CreateCurrency explicitly registers a currency ahead of any fact referencing it.
func (s *DimensionService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		CurrencyName: req.CurrencyName,
	}

	currencyID, err := s.currencyRepo.InsertCurrency(ctx, currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	currency.CurrencyID = currencyID
	return &currency, nil
}

// GetCurrencyByCode retrieves a currency by its 3-letter code.
func (s *DimensionService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies.
func (s *DimensionService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// BaseCurrency returns the single currency flagged as the system's base.
func (s *DimensionService) BaseCurrency(ctx context.Context) (*domain.Currency, error) {
	base, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get base currency: %w", err)
	}
	return base, nil
}

// SetBaseCurrency moves the base flag to another loaded currency.
func (s *DimensionService) SetBaseCurrency(ctx context.Context, currencyCode string) error {
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(currencyCode) != 3 {
		return fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	if err := s.currencyRepo.SetBaseCurrency(ctx, currencyCode); err != nil {
		return fmt.Errorf("failed to set base currency to %s: %w", currencyCode, err)
	}
	return nil
}
