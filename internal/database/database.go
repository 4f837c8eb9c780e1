// Package database manages the Postgres connection pool.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a connection pool and verifies connectivity.
func New(ctx context.Context, pgURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// EnsureSchema creates the tables this service needs if they do not exist.
// change_log and ops_log are append-only; nothing in the codebase updates
// or deletes their rows.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			symbol       TEXT PRIMARY KEY,
			name         TEXT,
			sector       TEXT,
			sub_sector   TEXT,
			headquarters TEXT,
			date_added   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS financials (
			symbol             TEXT PRIMARY KEY,
			as_of              TIMESTAMPTZ NOT NULL,
			price              DOUBLE PRECISION,
			market_cap         DOUBLE PRECISION,
			trailing_pe        DOUBLE PRECISION,
			forward_pe         DOUBLE PRECISION,
			dividend_yield     DOUBLE PRECISION,
			beta               DOUBLE PRECISION,
			high_52w           DOUBLE PRECISION,
			low_52w            DOUBLE PRECISION,
			shares_outstanding BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS change_log (
			id        BIGSERIAL PRIMARY KEY,
			ts        TIMESTAMPTZ NOT NULL,
			old_count INT NOT NULL,
			new_count INT NOT NULL,
			added     TEXT[] NOT NULL,
			removed   TEXT[] NOT NULL,
			updated   JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ops_log (
			id      BIGSERIAL PRIMARY KEY,
			ts      TIMESTAMPTZ NOT NULL,
			message TEXT NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
