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

// PgxCurrencyRepository implements the currency dimension repository using pgxpool.
type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRepository creates a new PgxCurrencyRepository.
func NewCurrencyRepository(pool *pgxpool.Pool) repositories.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{pool: pool}
}

// InsertCurrency creates a new dimension row, returning ErrDuplicate when the
// code already exists so callers can re-read the winner's surrogate id.
func (r *PgxCurrencyRepository) InsertCurrency(ctx context.Context, currency domain.Currency) (int64, error) {
	query := `
		INSERT INTO dim_currency (currency_code, currency_name)
		VALUES ($1, $2)
		ON CONFLICT (currency_code) DO NOTHING
		RETURNING currency_id;
	`
	var currencyID int64
	err := r.pool.QueryRow(ctx, query, currency.CurrencyCode, currency.CurrencyName).Scan(&currencyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrDuplicate
		}
		return 0, fmt.Errorf("error inserting currency %s: %w", currency.CurrencyCode, err)
	}
	return currencyID, nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_id, currency_code, COALESCE(currency_name, ''), is_base_currency
		FROM dim_currency
		WHERE currency_code = $1;
	`
	currency := &domain.Currency{}
	err := r.pool.QueryRow(ctx, query, currencyCode).Scan(
		&currency.CurrencyID, &currency.CurrencyCode, &currency.CurrencyName, &currency.IsBaseCurrency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding currency by code %s: %w", currencyCode, err)
	}
	return currency, nil
}

// FindCurrencyByID retrieves a currency by its surrogate id.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error) {
	query := `
		SELECT currency_id, currency_code, COALESCE(currency_name, ''), is_base_currency
		FROM dim_currency
		WHERE currency_id = $1;
	`
	currency := &domain.Currency{}
	err := r.pool.QueryRow(ctx, query, currencyID).Scan(
		&currency.CurrencyID, &currency.CurrencyCode, &currency.CurrencyName, &currency.IsBaseCurrency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding currency by id %d: %w", currencyID, err)
	}
	return currency, nil
}

// FindBaseCurrency retrieves the single row flagged as the base currency. The
// partial unique index on is_base_currency guarantees at most one row matches.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	query := `
		SELECT currency_id, currency_code, COALESCE(currency_name, ''), is_base_currency
		FROM dim_currency
		WHERE is_base_currency;
	`
	currency := &domain.Currency{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&currency.CurrencyID, &currency.CurrencyCode, &currency.CurrencyName, &currency.IsBaseCurrency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding base currency: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_id, currency_code, COALESCE(currency_name, ''), is_base_currency
		FROM dim_currency
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Currency, error) {
		var currency domain.Currency
		err := row.Scan(&currency.CurrencyID, &currency.CurrencyCode, &currency.CurrencyName, &currency.IsBaseCurrency)
		return currency, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return currencies, nil
}

// SetBaseCurrency moves the base flag to the given code in one transaction,
// so "exactly one base row" holds before and after.
func (r *PgxCurrencyRepository) SetBaseCurrency(ctx context.Context, currencyCode string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin base currency transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE dim_currency SET is_base_currency = FALSE WHERE is_base_currency;`); err != nil {
		return fmt.Errorf("failed to clear base currency flag: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE dim_currency SET is_base_currency = TRUE WHERE currency_code = $1;`, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to set base currency flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit base currency transaction: %w", err)
	}
	return nil
}
