package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConversionRepository is the read side of the conversion engine: the
// point-in-time join of price facts to same-day rate facts. It is read-only
// and runs against the store's native read consistency; a query racing a load
// may see a partially loaded day and is simply re-run after the load.
type PgxConversionRepository struct {
	pool *pgxpool.Pool
}

// NewConversionRepository creates a new PgxConversionRepository.
func NewConversionRepository(pool *pgxpool.Pool) repositories.ConversionReader {
	return &PgxConversionRepository{pool: pool}
}

// ListPricesWithRates returns every price fact in [from, to] for the given
// tickers (all stocks when empty), LEFT JOINed to the same-day rate for the
// requested directed currency pair. Rows without a rate come back with a null
// rate rather than being dropped.
func (r *PgxConversionRepository) ListPricesWithRates(ctx context.Context, from, to time.Time, tickers []string, fromCurrencyID, toCurrencyID int64) ([]domain.PriceWithRate, error) {
	query := `
		SELECT
			s.ticker, p.trade_date, p.open, p.high, p.low, p.close, p.volume, er.rate
		FROM fact_stock_price p
		JOIN dim_stock s ON s.stock_id = p.stock_id
		LEFT JOIN fact_exchange_rate er
			ON er.rate_date = p.trade_date
			AND er.from_currency_id = $3
			AND er.to_currency_id = $4
		WHERE p.trade_date BETWEEN $1 AND $2
			AND (cardinality($5::text[]) = 0 OR s.ticker = ANY($5))
		ORDER BY p.trade_date, s.ticker;
	`
	if tickers == nil {
		tickers = []string{}
	}
	rows, err := r.pool.Query(ctx, query, from, to, fromCurrencyID, toCurrencyID, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices with rates: %w", err)
	}
	defer rows.Close()

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PriceWithRate, error) {
		var pwr domain.PriceWithRate
		err := row.Scan(&pwr.Ticker, &pwr.TradeDate, &pwr.Open, &pwr.High, &pwr.Low, &pwr.Close, &pwr.Volume, &pwr.Rate)
		return pwr, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan prices with rates: %w", err)
	}
	return results, nil
}
