package scheduler

import (
	"context"
	"time"

	ingestusecase "jobradar-backend/internal/ingest/usecase"
	reportdomain "jobradar-backend/internal/report/domain"
	reportusecase "jobradar-backend/internal/report/usecase"

	"go.uber.org/zap"
)

// Notifier delivers a finished run report. Fire-and-forget: delivery
// failures are the notifier's problem, never the scheduler's.
type Notifier interface {
	Deliver(ctx context.Context, report *reportdomain.DailyRunReport)
}

// DailyRunScheduler triggers one full ingest run per interval
type DailyRunScheduler struct {
	runner   *ingestusecase.Runner
	reports  *reportusecase.Store
	notifier Notifier
	interval time.Duration
	stopChan chan struct{}
	log      *zap.SugaredLogger
}

// NewDailyRunScheduler creates the run scheduler. notifier may be nil.
func NewDailyRunScheduler(
	runner *ingestusecase.Runner,
	reports *reportusecase.Store,
	notifier Notifier,
	interval time.Duration,
	log *zap.SugaredLogger,
) *DailyRunScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DailyRunScheduler{
		runner:   runner,
		reports:  reports,
		notifier: notifier,
		interval: interval,
		stopChan: make(chan struct{}),
		log:      log.Named("run-scheduler"),
	}
}

// Start begins the run loop. The first run fires immediately.
func (s *DailyRunScheduler) Start(ctx context.Context) {
	s.log.Infow("starting run scheduler", "interval", s.interval)

	go func() {
		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx)
			case <-s.stopChan:
				s.log.Info("run scheduler stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *DailyRunScheduler) Stop() {
	close(s.stopChan)
}

// RunNow executes a run outside the schedule, e.g. from the API
func (s *DailyRunScheduler) RunNow(ctx context.Context) (*reportdomain.DailyRunReport, error) {
	return s.execute(ctx)
}

func (s *DailyRunScheduler) runOnce(ctx context.Context) {
	if _, err := s.execute(ctx); err != nil {
		s.log.Errorw("run failed", "error", err)
	}
}

func (s *DailyRunScheduler) execute(ctx context.Context) (*reportdomain.DailyRunReport, error) {
	date := time.Now().Format("2006-01-02")
	started := time.Now()

	report, err := s.runner.RunDay(ctx, date)
	if err != nil {
		return nil, err
	}

	s.log.Infow("run complete",
		"date", date,
		"duration", time.Since(started).Round(time.Millisecond),
		"messages", report.MessagesIngested,
		"job_messages", report.JobMessages,
		"skipped_groups", len(report.Skipped),
		"shortfall", report.TotalShortfall(),
	)

	s.reports.Put(report)
	if s.notifier != nil {
		s.notifier.Deliver(ctx, report)
	}
	return report, nil
}
