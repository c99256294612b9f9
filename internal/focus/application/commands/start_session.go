// Package commands contains the focus session state machine transitions.
// Each transition runs in a single unit of work so the one-active-session
// invariant holds under concurrent requests.
package commands

import (
	"context"
	"errors"
	"time"

	taskDomain "github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	"github.com/felixgeelhaar/focusboard/internal/focus/domain"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// StartSessionCommand starts a focus session on a task.
type StartSessionCommand struct {
	TaskID uuid.UUID
}

// StartSessionHandler handles the StartSessionCommand.
type StartSessionHandler struct {
	sessionRepo domain.Repository
	taskRepo    taskDomain.Repository
	uow         sharedApplication.UnitOfWork
	publisher   eventbus.Publisher
	now         func() time.Time
}

// NewStartSessionHandler creates a new StartSessionHandler.
func NewStartSessionHandler(sessionRepo domain.Repository, taskRepo taskDomain.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *StartSessionHandler {
	return &StartSessionHandler{
		sessionRepo: sessionRepo,
		taskRepo:    taskRepo,
		uow:         uow,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the handler's clock.
func (h *StartSessionHandler) WithClock(now func() time.Time) *StartSessionHandler {
	h.now = now
	return h
}

// Handle starts a new session. Any currently active session, on any task, is
// stopped and finalized first inside the same transaction, which is what
// keeps at most one session active without client coordination.
func (h *StartSessionHandler) Handle(ctx context.Context, cmd StartSessionCommand) (*domain.Session, error) {
	var started *domain.Session
	var displaced *domain.Session

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if _, err := h.taskRepo.FindByID(txCtx, cmd.TaskID); err != nil {
			return err
		}

		now := h.now()

		prev, err := h.sessionRepo.FindActive(txCtx)
		if err != nil && !errors.Is(err, sharedDomain.ErrNotFound) {
			return err
		}
		if prev != nil {
			if err := prev.Stop(now); err != nil {
				return err
			}
			if err := h.sessionRepo.Save(txCtx, prev); err != nil {
				return err
			}
			displaced = prev
		}

		s := domain.NewSession(cmd.TaskID, now)
		if err := h.sessionRepo.Save(txCtx, s); err != nil {
			return err
		}

		started = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if displaced != nil {
		if err := eventbus.PublishAll(ctx, h.publisher, displaced); err != nil {
			return nil, err
		}
	}
	if err := eventbus.PublishAll(ctx, h.publisher, started); err != nil {
		return nil, err
	}
	return started, nil
}
