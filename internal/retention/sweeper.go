// Package retention removes completed tasks after their retention window
// and expires focus sessions that ran past their task's target duration.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
)

// DefaultRetention is how long a completed task stays on the board before
// the sweeper removes it.
const DefaultRetention = 4 * time.Hour

// Sweeper deletes completed tasks whose retention has elapsed.
type Sweeper struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// NewSweeper creates a sweeper with the default 4-hour retention.
func NewSweeper(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
		retention: DefaultRetention,
		now:       time.Now,
	}
}

// WithRetention overrides the retention window.
func (s *Sweeper) WithRetention(d time.Duration) *Sweeper {
	s.retention = d
	return s
}

// WithClock overrides the time source, for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Sweep removes tasks completed before now minus the retention window and
// returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)

	var expired []*task.Task
	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		var err error
		expired, err = s.taskRepo.DeleteCompletedBefore(txCtx, cutoff)
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(expired))
	for _, t := range expired {
		ids = append(ids, t.ID().String())
		t.AddDomainEvent(task.NewTaskDeleted(t.ID(), t.Title(), true))
		if err := eventbus.PublishAll(ctx, s.publisher, t); err != nil {
			s.logger.Warn("failed to publish expiry event",
				slog.String("task_id", t.ID().String()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("removed expired completed tasks",
		slog.Int("count", len(expired)),
		slog.Any("task_ids", ids))
	return len(expired), nil
}
