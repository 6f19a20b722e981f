package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPriceRepository implements the stock price fact repository using pgxpool.
type PgxPriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new PgxPriceRepository.
func NewPriceRepository(pool *pgxpool.Pool) repositories.PriceRepositoryFacade {
	return &PgxPriceRepository{pool: pool}
}

// UpsertPrice inserts or overwrites the fact row keyed by (stock_id,
// trade_date). The WHERE clause keeps identical reloads from touching
// storage; xmax = 0 distinguishes a fresh insert from an overwrite of an
// existing row.
func (r *PgxPriceRepository) UpsertPrice(ctx context.Context, price domain.StockPrice) (domain.UpsertOutcome, error) {
	query := `
		INSERT INTO fact_stock_price (trade_date, stock_id, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stock_id, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
		WHERE (fact_stock_price.open, fact_stock_price.high, fact_stock_price.low, fact_stock_price.close, fact_stock_price.volume)
			IS DISTINCT FROM (EXCLUDED.open, EXCLUDED.high, EXCLUDED.low, EXCLUDED.close, EXCLUDED.volume)
		RETURNING (xmax = 0);
	`
	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		price.TradeDate, price.StockID, price.Open, price.High, price.Low, price.Close, price.Volume,
	).Scan(&inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict with identical values: the guarded update skipped the row.
			return domain.UpsertUnchanged, nil
		}
		return 0, fmt.Errorf("error upserting price for stock %d on %s: %w",
			price.StockID, price.TradeDate.Format("2006-01-02"), err)
	}
	if inserted {
		return domain.UpsertInserted, nil
	}
	return domain.UpsertUpdated, nil
}

// FindPrice retrieves the fact row for one (stock, trade date) pair.
func (r *PgxPriceRepository) FindPrice(ctx context.Context, stockID int64, tradeDate time.Time) (*domain.StockPrice, error) {
	query := `
		SELECT price_id, stock_id, trade_date, open, high, low, close, volume
		FROM fact_stock_price
		WHERE stock_id = $1 AND trade_date = $2;
	`
	price := &domain.StockPrice{}
	err := r.pool.QueryRow(ctx, query, stockID, tradeDate).Scan(
		&price.PriceID, &price.StockID, &price.TradeDate,
		&price.Open, &price.High, &price.Low, &price.Close, &price.Volume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding price for stock %d: %w", stockID, err)
	}
	return price, nil
}
