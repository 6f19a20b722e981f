package repositories

import (
	"context"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
)

// StockReader defines read operations for the stock dimension
type StockReader interface {
	// FindStockByTicker retrieves a stock by its natural key.
	FindStockByTicker(ctx context.Context, ticker string) (*domain.Stock, error)

	// FindStockByID retrieves a stock by its surrogate id.
	FindStockByID(ctx context.Context, stockID int64) (*domain.Stock, error)

	// ListStocks retrieves all stocks ordered by ticker.
	ListStocks(ctx context.Context) ([]domain.Stock, error)
}

// StockWriter defines write operations for the stock dimension
type StockWriter interface {
	// InsertStock creates a new dimension row and returns its generated
	// surrogate id. Returns apperrors.ErrDuplicate when the ticker already
	// exists, so callers can re-read and use the winner's id.
	InsertStock(ctx context.Context, stock domain.Stock) (int64, error)
}

// StockRepositoryFacade combines all stock repository interfaces
type StockRepositoryFacade interface {
	StockReader
	StockWriter
}
