package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sp500watch/internal/htmltable"
	"sp500watch/internal/models"
	"sp500watch/internal/roster"

	log "github.com/sirupsen/logrus"
)

// ErrSourceEmpty is returned when the source table yields no columns or no
// usable records. The run aborts before any snapshot mutation so a
// malformed fetch can never wipe the persisted history.
var ErrSourceEmpty = errors.New("source table has no usable rows")

// RosterService runs the reconciliation pipeline and serves the current
// snapshot.
type RosterService struct {
	store     SnapshotStore
	changeLog ChangeLog

	// mu serializes the load-reconcile-save-log sequence so concurrent
	// refresh triggers never diff against a stale snapshot or race on the
	// replacement. Plain reads go straight to the store.
	mu sync.Mutex
}

// NewRosterService creates a new RosterService
func NewRosterService(store SnapshotStore, changeLog ChangeLog) *RosterService {
	return &RosterService{
		store:     store,
		changeLog: changeLog,
	}
}

// RefreshResult is the outcome of one successful reconciliation run.
// LogWarning is set when the snapshot was saved but the audit-log append
// failed; the run still counts as successful because the snapshot is the
// authoritative state.
type RefreshResult struct {
	Count      int
	Summary    models.DiffSummary
	Event      models.ChangeEvent
	LogWarning string
}

// Refresh canonicalizes the raw table into a candidate record set,
// reconciles it against the persisted snapshot, atomically replaces the
// snapshot, and appends a change event to the audit log.
func (s *RosterService) Refresh(ctx context.Context, table *htmltable.Table) (*RefreshResult, error) {
	defer TrackTime("Refresh", time.Now())

	if table == nil || len(table.Columns) == 0 {
		return nil, ErrSourceEmpty
	}

	mapping := roster.ResolveColumns(table.Columns)
	records := make([]models.Company, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, roster.BuildRecord(mapping, row))
	}
	newSet := roster.Finalize(records)
	if len(newSet) == 0 {
		return nil, ErrSourceEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	oldSet, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current snapshot: %w", err)
	}
	log.Infof("Refresh: %d current companies, %d fetched", len(oldSet), len(newSet))

	event, summary := roster.Diff(oldSet, newSet)

	if err := s.store.ReplaceAll(ctx, newSet); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	result := &RefreshResult{
		Count:   len(newSet),
		Summary: summary,
		Event:   event,
	}

	// The audit log is supplementary: a failed append downgrades to a
	// warning, it never rolls back the saved snapshot.
	if err := s.changeLog.AppendEvent(ctx, event); err != nil {
		log.Errorf("Failed to append change event: %v", err)
		result.LogWarning = "snapshot saved but change log append failed"
		return result, nil
	}
	note := fmt.Sprintf("refresh: %d companies (%d added, %d removed, %d updated)",
		len(newSet), len(summary.Added), len(summary.Removed), len(summary.Updated))
	if err := s.changeLog.AppendNote(ctx, note); err != nil {
		log.Errorf("Failed to append note: %v", err)
		result.LogWarning = "snapshot saved but operational note append failed"
	}

	return result, nil
}

// GetCompanies returns the current snapshot.
func (s *RosterService) GetCompanies(ctx context.Context) ([]models.Company, error) {
	return s.store.GetAll(ctx)
}

// GetCompany returns one company from the current snapshot. The symbol is
// matched case-insensitively; the store keys are uppercase.
func (s *RosterService) GetCompany(ctx context.Context, symbol string) (*models.Company, error) {
	return s.store.GetBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// History returns the most recent change events, newest first.
func (s *RosterService) History(ctx context.Context, limit int) ([]models.ChangeEvent, error) {
	return s.changeLog.RecentEvents(ctx, limit)
}
