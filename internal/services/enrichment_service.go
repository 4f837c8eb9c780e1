package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sp500watch/internal/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// quoteBatchSize is how many symbols go into one provider request.
	quoteBatchSize = 50
	// maxConcurrentBatches bounds parallel provider requests.
	maxConcurrentBatches = 4
)

// EnrichmentService refreshes per-symbol financial metrics. It runs
// independently of reconciliation: it consumes the snapshot's symbol list
// but never participates in roster diffs.
type EnrichmentService struct {
	quotes QuoteFetcher
	store  FinancialStore
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(quotes QuoteFetcher, store FinancialStore) *EnrichmentService {
	return &EnrichmentService{
		quotes: quotes,
		store:  store,
	}
}

// RefreshFinancials fetches financials for the given symbols in bounded
// parallel batches, then bulk-merges the successes into the store. A
// symbol whose fetch fails or returns neither price nor market cap is
// skipped, leaving its prior record untouched. One symbol's failure never
// aborts the rest.
func (s *EnrichmentService) RefreshFinancials(ctx context.Context, symbols []string) (*models.EnrichmentResult, error) {
	defer TrackTime("RefreshFinancials", time.Now())

	upper := make([]string, len(symbols))
	for i, sym := range symbols {
		upper[i] = strings.ToUpper(sym)
	}
	symbols = upper

	results := make(map[string]*models.Financials, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for start := 0; start < len(symbols); start += quoteBatchSize {
		batch := symbols[start:min(start+quoteBatchSize, len(symbols))]
		g.Go(func() error {
			recs, err := s.quotes.GetQuoteBatch(gctx, batch)
			if err != nil {
				// Fetch errors resolve to absent for the whole batch; the
				// run carries on.
				log.Errorf("Quote batch of %d symbols failed: %v", len(batch), err)
				recs = make(map[string]*models.Financials, len(batch))
				for _, sym := range batch {
					recs[sym] = nil
				}
			}
			mu.Lock()
			for sym, rec := range recs {
				results[sym] = rec
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updated := make([]models.Financials, 0, len(symbols))
	for _, sym := range symbols {
		if rec := results[sym]; rec != nil {
			updated = append(updated, *rec)
		}
	}

	if err := s.store.UpsertBatch(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save financials: %w", err)
	}

	result := &models.EnrichmentResult{
		Requested: len(symbols),
		Updated:   len(updated),
		Skipped:   len(symbols) - len(updated),
	}
	log.Infof("RefreshFinancials: %d requested, %d updated, %d skipped",
		result.Requested, result.Updated, result.Skipped)
	return result, nil
}

// GetFinancials returns all stored financials.
func (s *EnrichmentService) GetFinancials(ctx context.Context) ([]models.Financials, error) {
	return s.store.GetAll(ctx)
}

// GetFinancialsBySymbol returns the stored financials for one symbol.
func (s *EnrichmentService) GetFinancialsBySymbol(ctx context.Context, symbol string) (*models.Financials, error) {
	return s.store.GetBySymbol(ctx, symbol)
}
