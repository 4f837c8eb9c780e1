package repository

import (
	"context"
	"errors"
	"fmt"

	"sp500watch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFinancialsNotFound = errors.New("financials not found")

// FinancialRepository is the enrichment store: per-symbol financial
// metrics, upserted in bulk after each enrichment run.
type FinancialRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRepository creates a new FinancialRepository
func NewFinancialRepository(pool *pgxpool.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

const financialColumns = `symbol, as_of, price, market_cap, trailing_pe, forward_pe,
	dividend_yield, beta, high_52w, low_52w, shares_outstanding`

// GetAll retrieves all stored financials ordered by symbol.
func (r *FinancialRepository) GetAll(ctx context.Context) ([]models.Financials, error) {
	query := `SELECT ` + financialColumns + ` FROM financials ORDER BY symbol`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query financials: %w", err)
	}
	defer rows.Close()

	var result []models.Financials
	for rows.Next() {
		var f models.Financials
		if err := rows.Scan(&f.Symbol, &f.AsOf, &f.Price, &f.MarketCap, &f.TrailingPE, &f.ForwardPE,
			&f.DividendYield, &f.Beta, &f.High52W, &f.Low52W, &f.SharesOutstanding); err != nil {
			return nil, fmt.Errorf("failed to scan financials: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// GetBySymbol retrieves the stored financials for one symbol.
func (r *FinancialRepository) GetBySymbol(ctx context.Context, symbol string) (*models.Financials, error) {
	query := `SELECT ` + financialColumns + ` FROM financials WHERE symbol = $1`
	f := &models.Financials{}
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&f.Symbol, &f.AsOf, &f.Price, &f.MarketCap, &f.TrailingPE, &f.ForwardPE,
		&f.DividendYield, &f.Beta, &f.High52W, &f.Low52W, &f.SharesOutstanding,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFinancialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financials: %w", err)
	}
	return f, nil
}

// UpsertBatch writes the given records in one transaction, inserting new
// symbols and overwriting existing ones. Symbols not in the batch keep
// their prior records.
func (r *FinancialRepository) UpsertBatch(ctx context.Context, records []models.Financials) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO financials (` + financialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol) DO UPDATE SET
			as_of = EXCLUDED.as_of,
			price = EXCLUDED.price,
			market_cap = EXCLUDED.market_cap,
			trailing_pe = EXCLUDED.trailing_pe,
			forward_pe = EXCLUDED.forward_pe,
			dividend_yield = EXCLUDED.dividend_yield,
			beta = EXCLUDED.beta,
			high_52w = EXCLUDED.high_52w,
			low_52w = EXCLUDED.low_52w,
			shares_outstanding = EXCLUDED.shares_outstanding
	`
	for _, f := range records {
		if _, err := tx.Exec(ctx, query,
			f.Symbol, f.AsOf, f.Price, f.MarketCap, f.TrailingPE, f.ForwardPE,
			f.DividendYield, f.Beta, f.High52W, f.Low52W, f.SharesOutstanding); err != nil {
			return fmt.Errorf("failed to upsert financials for %s: %w", f.Symbol, err)
		}
	}

	return tx.Commit(ctx)
}
