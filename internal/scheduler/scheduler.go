// Package scheduler runs the periodic roster and financials refresh jobs.
package scheduler

import (
	"context"
	"fmt"

	"sp500watch/internal/services"
	"sp500watch/internal/wikipedia"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron          *cron.Cron
	source        *wikipedia.Client
	rosterSvc     *services.RosterService
	enrichmentSvc *services.EnrichmentService
	ctx           context.Context
}

// New creates a new Scheduler.
func New(ctx context.Context, source *wikipedia.Client, rosterSvc *services.RosterService, enrichmentSvc *services.EnrichmentService) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		source:        source,
		rosterSvc:     rosterSvc,
		enrichmentSvc: enrichmentSvc,
		ctx:           ctx,
	}
}

// Register registers the refresh jobs. An empty cron spec disables that job.
func (s *Scheduler) Register(refreshSpec, financialsSpec string) error {
	if refreshSpec != "" {
		if _, err := s.cron.AddFunc(refreshSpec, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	if financialsSpec != "" {
		if _, err := s.cron.AddFunc(financialsSpec, s.financialsTask); err != nil {
			return fmt.Errorf("register financials task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop stops the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info("Scheduler stopped")
}

// RunRefreshNow executes the roster refresh immediately (RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Info("Running scheduled roster refresh")
	table, err := s.source.FetchTable(s.ctx)
	if err != nil {
		log.Errorf("Scheduled refresh fetch failed: %v", err)
		return
	}
	result, err := s.rosterSvc.Refresh(s.ctx, table)
	if err != nil {
		log.Errorf("Scheduled refresh failed: %v", err)
		return
	}
	log.Infof("Scheduled refresh done: %d companies (%d added, %d removed, %d updated)",
		result.Count, len(result.Summary.Added), len(result.Summary.Removed), len(result.Summary.Updated))
	if result.LogWarning != "" {
		log.Warn(result.LogWarning)
	}
}

func (s *Scheduler) financialsTask() {
	log.Info("Running scheduled financials refresh")
	companies, err := s.rosterSvc.GetCompanies(s.ctx)
	if err != nil {
		log.Errorf("Scheduled financials refresh: loading snapshot failed: %v", err)
		return
	}
	symbols := make([]string, len(companies))
	for i, c := range companies {
		symbols[i] = c.Symbol
	}
	result, err := s.enrichmentSvc.RefreshFinancials(s.ctx, symbols)
	if err != nil {
		log.Errorf("Scheduled financials refresh failed: %v", err)
		return
	}
	log.Infof("Scheduled financials refresh done: %d updated, %d skipped", result.Updated, result.Skipped)
}
