package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// runTimeout bounds one scheduled ingestion run, providers included.
const runTimeout = 10 * time.Minute

// Scheduler runs the daily ingestion on a cron spec. Each firing ingests the
// previous calendar day, the most recent day both providers have closed data
// for.
type Scheduler struct {
	cron      *cron.Cron
	ingestion portssvc.IngestionSvcFacade
	logger    *slog.Logger
}

// New creates a Scheduler that triggers ingestion on the given cron spec.
func New(spec string, ingestion portssvc.IngestionSvcFacade, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		ingestion: ingestion,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(spec, s.runPreviousDay); err != nil {
		return nil, fmt.Errorf("invalid ingestion cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing scheduled runs in a background goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("Ingestion scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Ingestion scheduler stopped")
}

func (s *Scheduler) runPreviousDay() {
	day := time.Now().UTC().AddDate(0, 0, -1)
	logger := s.logger.With(slog.String("day", day.Format("2006-01-02")))

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	logger.Info("Scheduled ingestion starting")
	summary, err := s.ingestion.RunDay(ctx, day)
	if err != nil {
		logger.Error("Scheduled ingestion failed", slog.String("error", err.Error()))
		return
	}

	logger.Info("Scheduled ingestion completed",
		slog.Int("prices_inserted", summary.Prices.Inserted),
		slog.Int("prices_updated", summary.Prices.Updated),
		slog.Int("prices_rejected", len(summary.Prices.Rejected)),
		slog.Int("rates_inserted", summary.Rates.Inserted),
		slog.Int("rates_updated", summary.Rates.Updated),
		slog.Int("rates_rejected", len(summary.Rates.Rejected)),
	)
}
