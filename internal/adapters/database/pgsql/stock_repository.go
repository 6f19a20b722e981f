package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStockRepository implements the stock dimension repository using pgxpool.
type PgxStockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new PgxStockRepository.
func NewStockRepository(pool *pgxpool.Pool) repositories.StockRepositoryFacade {
	return &PgxStockRepository{pool: pool}
}

// InsertStock creates a new dimension row. The unique constraint on ticker is
// the concurrency arbiter: when another loader inserted the same ticker
// first, ON CONFLICT DO NOTHING returns no row and the caller gets
// ErrDuplicate to re-read the winner.
func (r *PgxStockRepository) InsertStock(ctx context.Context, stock domain.Stock) (int64, error) {
	query := `
		INSERT INTO dim_stock (ticker, company_name)
		VALUES ($1, $2)
		ON CONFLICT (ticker) DO NOTHING
		RETURNING stock_id;
	`
	var stockID int64
	err := r.pool.QueryRow(ctx, query, stock.Ticker, stock.CompanyName).Scan(&stockID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrDuplicate
		}
		return 0, fmt.Errorf("error inserting stock %s: %w", stock.Ticker, err)
	}
	return stockID, nil
}

// FindStockByTicker retrieves a stock by its natural key.
func (r *PgxStockRepository) FindStockByTicker(ctx context.Context, ticker string) (*domain.Stock, error) {
	query := `
		SELECT stock_id, ticker, COALESCE(company_name, '')
		FROM dim_stock
		WHERE ticker = $1;
	`
	stock := &domain.Stock{}
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&stock.StockID, &stock.Ticker, &stock.CompanyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding stock by ticker %s: %w", ticker, err)
	}
	return stock, nil
}

// FindStockByID retrieves a stock by its surrogate id.
func (r *PgxStockRepository) FindStockByID(ctx context.Context, stockID int64) (*domain.Stock, error) {
	query := `
		SELECT stock_id, ticker, COALESCE(company_name, '')
		FROM dim_stock
		WHERE stock_id = $1;
	`
	stock := &domain.Stock{}
	err := r.pool.QueryRow(ctx, query, stockID).Scan(&stock.StockID, &stock.Ticker, &stock.CompanyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding stock by id %d: %w", stockID, err)
	}
	return stock, nil
}

// ListStocks retrieves all stocks ordered by ticker.
func (r *PgxStockRepository) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	query := `
		SELECT stock_id, ticker, COALESCE(company_name, '')
		FROM dim_stock
		ORDER BY ticker;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	stocks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Stock, error) {
		var stock domain.Stock
		err := row.Scan(&stock.StockID, &stock.Ticker, &stock.CompanyName)
		return stock, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stocks: %w", err)
	}
	return stocks, nil
}
