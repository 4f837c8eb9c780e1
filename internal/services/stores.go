package services

import (
	"context"

	"sp500watch/internal/models"
)

// SnapshotStore persists the authoritative current record set. ReplaceAll
// must be atomic with respect to concurrent reads: a reader observes
// either the fully-old or fully-new snapshot, never a mix, and any error
// leaves the prior snapshot intact.
type SnapshotStore interface {
	GetAll(ctx context.Context) ([]models.Company, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.Company, error)
	ReplaceAll(ctx context.Context, companies []models.Company) error
}

// ChangeLog is the append-only audit log. The core only writes it; it is
// never read back for reconciliation.
type ChangeLog interface {
	AppendEvent(ctx context.Context, event models.ChangeEvent) error
	AppendNote(ctx context.Context, message string) error
	RecentEvents(ctx context.Context, limit int) ([]models.ChangeEvent, error)
}

// FinancialStore persists per-symbol enrichment records.
type FinancialStore interface {
	GetAll(ctx context.Context) ([]models.Financials, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.Financials, error)
	UpsertBatch(ctx context.Context, records []models.Financials) error
}

// QuoteFetcher fetches financials for a batch of symbols. A nil map value
// means the symbol resolved to "absent" (provider had neither price nor
// market cap); a non-nil error means the whole batch is absent.
type QuoteFetcher interface {
	GetQuoteBatch(ctx context.Context, symbols []string) (map[string]*models.Financials, error)
}
