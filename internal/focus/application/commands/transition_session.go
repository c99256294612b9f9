package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/focus/domain"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// transitionHandler applies a single state transition to the task's active
// session. Pause, resume and stop share the load-mutate-save shape.
type transitionHandler struct {
	sessionRepo domain.Repository
	uow         sharedApplication.UnitOfWork
	publisher   eventbus.Publisher
	now         func() time.Time
	apply       func(s *domain.Session, now time.Time) error
}

func (h *transitionHandler) handle(ctx context.Context, taskID uuid.UUID) (*domain.Session, error) {
	var session *domain.Session

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		s, err := h.sessionRepo.FindActiveByTask(txCtx, taskID)
		if err != nil {
			return err
		}

		if err := h.apply(s, h.now()); err != nil {
			return err
		}

		if err := h.sessionRepo.Save(txCtx, s); err != nil {
			return err
		}

		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := eventbus.PublishAll(ctx, h.publisher, session); err != nil {
		return nil, err
	}
	return session, nil
}

// PauseSessionHandler pauses the task's running session.
type PauseSessionHandler struct{ transitionHandler }

// NewPauseSessionHandler creates a new PauseSessionHandler.
func NewPauseSessionHandler(sessionRepo domain.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *PauseSessionHandler {
	return &PauseSessionHandler{transitionHandler{
		sessionRepo: sessionRepo,
		uow:         uow,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
		apply:       (*domain.Session).Pause,
	}}
}

// WithClock overrides the handler's clock.
func (h *PauseSessionHandler) WithClock(now func() time.Time) *PauseSessionHandler {
	h.now = now
	return h
}

// Handle pauses the active session for the task.
func (h *PauseSessionHandler) Handle(ctx context.Context, taskID uuid.UUID) (*domain.Session, error) {
	return h.handle(ctx, taskID)
}

// ResumeSessionHandler resumes the task's paused session.
type ResumeSessionHandler struct{ transitionHandler }

// NewResumeSessionHandler creates a new ResumeSessionHandler.
func NewResumeSessionHandler(sessionRepo domain.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *ResumeSessionHandler {
	return &ResumeSessionHandler{transitionHandler{
		sessionRepo: sessionRepo,
		uow:         uow,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
		apply:       (*domain.Session).Resume,
	}}
}

// WithClock overrides the handler's clock.
func (h *ResumeSessionHandler) WithClock(now func() time.Time) *ResumeSessionHandler {
	h.now = now
	return h
}

// Handle resumes the paused session for the task.
func (h *ResumeSessionHandler) Handle(ctx context.Context, taskID uuid.UUID) (*domain.Session, error) {
	return h.handle(ctx, taskID)
}

// StopSessionHandler stops the task's active session.
type StopSessionHandler struct{ transitionHandler }

// NewStopSessionHandler creates a new StopSessionHandler.
func NewStopSessionHandler(sessionRepo domain.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *StopSessionHandler {
	return &StopSessionHandler{transitionHandler{
		sessionRepo: sessionRepo,
		uow:         uow,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
		apply:       (*domain.Session).Stop,
	}}
}

// WithClock overrides the handler's clock.
func (h *StopSessionHandler) WithClock(now func() time.Time) *StopSessionHandler {
	h.now = now
	return h
}

// Handle stops the active session for the task.
func (h *StopSessionHandler) Handle(ctx context.Context, taskID uuid.UUID) (*domain.Session, error) {
	return h.handle(ctx, taskID)
}
