package repository

import (
	"context"
	"errors"
	"fmt"

	"sp500watch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository is the snapshot store: it holds the current
// authoritative record set in the companies table.
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// GetAll retrieves the current snapshot ordered by symbol. An empty slice
// means no snapshot has ever been persisted.
func (r *CompanyRepository) GetAll(ctx context.Context) ([]models.Company, error) {
	query := `
		SELECT symbol, name, sector, sub_sector, headquarters, date_added
		FROM companies
		ORDER BY symbol
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var result []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.Symbol, &c.Name, &c.Sector, &c.SubSector, &c.Headquarters, &c.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetBySymbol retrieves a single company from the current snapshot.
func (r *CompanyRepository) GetBySymbol(ctx context.Context, symbol string) (*models.Company, error) {
	query := `
		SELECT symbol, name, sector, sub_sector, headquarters, date_added
		FROM companies
		WHERE symbol = $1
	`
	c := &models.Company{}
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&c.Symbol, &c.Name, &c.Sector, &c.SubSector, &c.Headquarters, &c.DateAdded,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// ReplaceAll replaces the whole snapshot with the given record set inside
// one transaction. Concurrent readers observe either the fully-old or
// fully-new snapshot, never a mix; on any error the prior snapshot is left
// intact.
func (r *CompanyRepository) ReplaceAll(ctx context.Context, companies []models.Company) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM companies`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	columns := []string{"symbol", "name", "sector", "sub_sector", "headquarters", "date_added"}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"companies"}, columns,
		pgx.CopyFromSlice(len(companies), func(i int) ([]any, error) {
			c := companies[i]
			return []any{c.Symbol, c.Name, c.Sector, c.SubSector, c.Headquarters, c.DateAdded}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return tx.Commit(ctx)
}
