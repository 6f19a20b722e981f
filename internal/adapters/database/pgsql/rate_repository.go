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

// PgxRateRepository implements the exchange rate fact repository using pgxpool.
type PgxRateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new PgxRateRepository.
func NewRateRepository(pool *pgxpool.Pool) repositories.RateRepositoryFacade {
	return &PgxRateRepository{pool: pool}
}

// UpsertRate inserts or overwrites the fact row keyed by
// (rate_date, from_currency_id, to_currency_id). Same guarded-update and
// xmax trick as the price upsert.
func (r *PgxRateRepository) UpsertRate(ctx context.Context, rate domain.ExchangeRate) (domain.UpsertOutcome, error) {
	query := `
		INSERT INTO fact_exchange_rate (rate_date, from_currency_id, to_currency_id, rate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (rate_date, from_currency_id, to_currency_id) DO UPDATE SET
			rate = EXCLUDED.rate
		WHERE fact_exchange_rate.rate IS DISTINCT FROM EXCLUDED.rate
		RETURNING (xmax = 0);
	`
	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		rate.RateDate, rate.FromCurrencyID, rate.ToCurrencyID, rate.Rate,
	).Scan(&inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UpsertUnchanged, nil
		}
		return 0, fmt.Errorf("error upserting rate %d->%d on %s: %w",
			rate.FromCurrencyID, rate.ToCurrencyID, rate.RateDate.Format("2006-01-02"), err)
	}
	if inserted {
		return domain.UpsertInserted, nil
	}
	return domain.UpsertUpdated, nil
}

// FindRate retrieves the fact row for one (date, from, to) triple.
func (r *PgxRateRepository) FindRate(ctx context.Context, rateDate time.Time, fromCurrencyID, toCurrencyID int64) (*domain.ExchangeRate, error) {
	query := `
		SELECT rate_id, rate_date, from_currency_id, to_currency_id, rate
		FROM fact_exchange_rate
		WHERE rate_date = $1 AND from_currency_id = $2 AND to_currency_id = $3;
	`
	rate := &domain.ExchangeRate{}
	err := r.pool.QueryRow(ctx, query, rateDate, fromCurrencyID, toCurrencyID).Scan(
		&rate.RateID, &rate.RateDate, &rate.FromCurrencyID, &rate.ToCurrencyID, &rate.Rate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding rate %d->%d: %w", fromCurrencyID, toCurrencyID, err)
	}
	return rate, nil
}
