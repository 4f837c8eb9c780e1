package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sp500watch/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChangeLogRepository is the audit log: an append-only record of
// reconciliation change events plus free-text operational notes. Nothing
// here updates or deletes existing rows.
type ChangeLogRepository struct {
	pool *pgxpool.Pool
}

// NewChangeLogRepository creates a new ChangeLogRepository
func NewChangeLogRepository(pool *pgxpool.Pool) *ChangeLogRepository {
	return &ChangeLogRepository{pool: pool}
}

// AppendEvent appends one change event to the change log.
func (r *ChangeLogRepository) AppendEvent(ctx context.Context, event models.ChangeEvent) error {
	updated, err := json.Marshal(event.Updated)
	if err != nil {
		return fmt.Errorf("failed to marshal updated detail: %w", err)
	}
	query := `
		INSERT INTO change_log (ts, old_count, new_count, added, removed, updated)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		event.TS, event.Counts.Old, event.Counts.New, event.Added, event.Removed, updated)
	if err != nil {
		return fmt.Errorf("failed to append change event: %w", err)
	}
	return nil
}

// AppendNote appends a timestamped free-text operational note.
func (r *ChangeLogRepository) AppendNote(ctx context.Context, message string) error {
	query := `INSERT INTO ops_log (ts, message) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, time.Now().UTC(), message); err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent change events, newest first.
func (r *ChangeLogRepository) RecentEvents(ctx context.Context, limit int) ([]models.ChangeEvent, error) {
	query := `
		SELECT ts, old_count, new_count, added, removed, updated
		FROM change_log
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query change log: %w", err)
	}
	defer rows.Close()

	var result []models.ChangeEvent
	for rows.Next() {
		var ev models.ChangeEvent
		var updated []byte
		if err := rows.Scan(&ev.TS, &ev.Counts.Old, &ev.Counts.New, &ev.Added, &ev.Removed, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan change event: %w", err)
		}
		if err := json.Unmarshal(updated, &ev.Updated); err != nil {
			return nil, fmt.Errorf("failed to unmarshal updated detail: %w", err)
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}
