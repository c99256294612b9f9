package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	focusCommands "github.com/felixgeelhaar/focusboard/internal/focus/application/commands"
	"github.com/felixgeelhaar/focusboard/pkg/observability"
)

const (
	// sweepSchedule runs the retention sweep at the top of every hour.
	sweepSchedule = "0 * * * *"
	// expirySchedule checks for over-duration focus sessions every minute.
	expirySchedule = "* * * * *"
)

// Scheduler runs the retention sweep and focus expiry checks on cron
// schedules, in UTC.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	expirer *focusCommands.ExpireSessionHandler
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewScheduler creates a scheduler with the hourly sweep and minutely
// expiry check registered. Each run is timed and recorded as an
// operation metric.
func NewScheduler(sweeper *Sweeper, expirer *focusCommands.ExpireSessionHandler, metrics observability.Metrics, logger *slog.Logger) (*Scheduler, error) {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sweeper: sweeper,
		expirer: expirer,
		metrics: metrics,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(sweepSchedule, s.runSweep); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(expirySchedule, s.runExpiryCheck); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs an immediate sweep so restarts do not extend retention, then
// starts the cron loop.
func (s *Scheduler) Start() {
	s.runSweep()
	s.cron.Start()
	s.logger.Info("retention scheduler started",
		slog.String("sweep_schedule", sweepSchedule),
		slog.String("expiry_schedule", expirySchedule))
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

func (s *Scheduler) runSweep() {
	err := observability.TimeOperation(context.Background(), s.logger, s.metrics, "retention.sweep", func(ctx context.Context) error {
		_, err := s.sweeper.Sweep(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("retention sweep failed", slog.String("error", err.Error()))
	}
}

func (s *Scheduler) runExpiryCheck() {
	err := observability.TimeOperation(context.Background(), s.logger, s.metrics, "focus.expiry_check", func(ctx context.Context) error {
		_, err := s.expirer.Handle(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("focus expiry check failed", slog.String("error", err.Error()))
	}
}
