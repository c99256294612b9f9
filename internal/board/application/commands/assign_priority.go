package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// AssignPriorityCommand moves a task into a priority slot, swapping with the
// current holder when the slot is occupied.
type AssignPriorityCommand struct {
	TaskID   uuid.UUID
	Priority int
}

// AssignPriorityHandler handles the AssignPriorityCommand.
type AssignPriorityHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
}

// NewAssignPriorityHandler creates a new AssignPriorityHandler.
func NewAssignPriorityHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *AssignPriorityHandler {
	return &AssignPriorityHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// Handle executes the AssignPriorityCommand and returns the updated task.
func (h *AssignPriorityHandler) Handle(ctx context.Context, cmd AssignPriorityCommand) (*task.Task, error) {
	if cmd.Priority < 1 {
		return nil, task.ErrInvalidPriority
	}

	var updated *task.Task
	var displaced *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		displaced, err = swapPriority(txCtx, h.taskRepo, t, cmd.Priority)
		if err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		updated = t
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
	if err := eventbus.PublishAll(ctx, h.publisher, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// swapPriority moves t into the requested slot. When another active task
// holds the slot it receives t's old priority, a two-row swap that must be
// saved inside the caller's transaction. Returns the displaced task, if any.
func swapPriority(ctx context.Context, repo task.Repository, t *task.Task, newPriority int) (*task.Task, error) {
	if t.Priority() == newPriority {
		return nil, nil
	}

	holder, err := repo.FindActiveByPriority(ctx, newPriority)
	if err != nil && !errors.Is(err, sharedDomain.ErrNotFound) {
		return nil, err
	}

	var displaced *task.Task
	if err == nil && holder.ID() != t.ID() {
		// Only an active slot can be traded. An unslotted task has nothing
		// to offer, and a completed task's old slot may already have been
		// refilled, so handing it over would double-book the slot.
		if t.Priority() < 1 || !t.IsActive() {
			return nil, sharedDomain.Conflictf("priority %d is already taken", newPriority)
		}
		if err := holder.SetPriority(t.Priority()); err != nil {
			return nil, err
		}
		if err := repo.Save(ctx, holder); err != nil {
			return nil, err
		}
		displaced = holder
	}

	if err := t.SetPriority(newPriority); err != nil {
		return nil, err
	}
	return displaced, nil
}
