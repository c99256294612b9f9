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
)

// ExpireSessionHandler stops the active session once it has run for its
// task's full focus duration, and completes the task. The is_active flip
// inside the transaction is the one-shot latch: a second concurrent or
// later check finds no active session and does nothing.
type ExpireSessionHandler struct {
	sessionRepo domain.Repository
	taskRepo    taskDomain.Repository
	uow         sharedApplication.UnitOfWork
	publisher   eventbus.Publisher
	now         func() time.Time
}

// NewExpireSessionHandler creates a new ExpireSessionHandler.
func NewExpireSessionHandler(sessionRepo domain.Repository, taskRepo taskDomain.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *ExpireSessionHandler {
	return &ExpireSessionHandler{
		sessionRepo: sessionRepo,
		taskRepo:    taskRepo,
		uow:         uow,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the handler's clock.
func (h *ExpireSessionHandler) WithClock(now func() time.Time) *ExpireSessionHandler {
	h.now = now
	return h
}

// Handle checks the active session against its task's focus duration.
// Returns the stopped session when an expiry happened, nil otherwise.
func (h *ExpireSessionHandler) Handle(ctx context.Context) (*domain.Session, error) {
	var expired *domain.Session
	var completedTask *taskDomain.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		s, err := h.sessionRepo.FindActive(txCtx)
		if err != nil {
			if errors.Is(err, sharedDomain.ErrNotFound) {
				return nil
			}
			return err
		}

		t, err := h.taskRepo.FindByID(txCtx, s.TaskID())
		if err != nil {
			return err
		}
		if t.FocusDuration() == nil {
			return nil
		}

		now := h.now()
		if !s.DurationReached(now, *t.FocusDuration()) {
			return nil
		}

		if err := s.Stop(now); err != nil {
			return err
		}
		s.AddDomainEvent(domain.NewFocusExpired(s.ID(), s.TaskID(), s.ElapsedSeconds()))
		if err := h.sessionRepo.Save(txCtx, s); err != nil {
			return err
		}

		if !t.Completed() {
			t.SetCompleted(true)
			if err := h.taskRepo.Save(txCtx, t); err != nil {
				return err
			}
			completedTask = t
		}

		expired = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired != nil {
		if err := eventbus.PublishAll(ctx, h.publisher, expired); err != nil {
			return nil, err
		}
	}
	if completedTask != nil {
		if err := eventbus.PublishAll(ctx, h.publisher, completedTask); err != nil {
			return nil, err
		}
	}
	return expired, nil
}
