package services

import (
	"context"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/dto"
)

// StockResolver resolves stock natural keys to surrogate ids, creating
// dimension rows lazily on first sight.
type StockResolver interface {
	// ResolveStock returns the surrogate id for the ticker, inserting a new
	// dimension row on first sight. Resolving the same ticker twice, even
	// concurrently, yields the same id. An existing row with a conflicting
	// company name fails with apperrors.ErrIntegrityViolation.
	ResolveStock(ctx context.Context, ticker, companyName string) (int64, error)
}

// CurrencyResolver resolves currency natural keys to surrogate ids.
type CurrencyResolver interface {
	// ResolveCurrency is ResolveStock's counterpart for ISO currency codes.
	ResolveCurrency(ctx context.Context, currencyCode, currencyName string) (int64, error)
}

// StockSvc defines the read side of the stock dimension.
type StockSvc interface {
	GetStockByTicker(ctx context.Context, ticker string) (*domain.Stock, error)
	ListStocks(ctx context.Context) ([]domain.Stock, error)
}

// CurrencySvc defines currency dimension management.
type CurrencySvc interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// BaseCurrency returns the single currency raw prices are denominated in.
	BaseCurrency(ctx context.Context) (*domain.Currency, error)

	// SetBaseCurrency moves the base flag to another loaded currency.
	SetBaseCurrency(ctx context.Context, currencyCode string) error
}

// DimensionSvcFacade combines resolution and dimension management.
type DimensionSvcFacade interface {
	StockResolver
	CurrencyResolver
	StockSvc
	CurrencySvc
}
