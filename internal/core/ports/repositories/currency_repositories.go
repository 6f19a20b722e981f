package repositories

import (
	"context"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
)

// CurrencyReader defines read operations for the currency dimension
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by its ISO code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// FindCurrencyByID retrieves a currency by its surrogate id.
	FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error)

	// FindBaseCurrency retrieves the single row flagged as the system's base
	// currency.
	FindBaseCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies ordered by code.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for the currency dimension
type CurrencyWriter interface {
	// InsertCurrency creates a new dimension row and returns its generated
	// surrogate id. Returns apperrors.ErrDuplicate when the code already exists.
	InsertCurrency(ctx context.Context, currency domain.Currency) (int64, error)

	// SetBaseCurrency atomically moves the base-currency flag to the given
	// code, keeping exactly one base row at all times.
	SetBaseCurrency(ctx context.Context, currencyCode string) error
}

// CurrencyRepositoryFacade combines all currency repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
