package commands

import (
	"context"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// UpdateTaskCommand applies a partial field patch to a task. Nil fields are
// left untouched.
type UpdateTaskCommand struct {
	TaskID        uuid.UUID
	Title         *string
	Priority      *int
	Completed     *bool
	Meta          *task.Meta
	FocusDuration *int
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// Handle executes the UpdateTaskCommand and returns the updated task.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	var updated *task.Task
	var displaced *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if cmd.Title != nil {
			if err := t.SetTitle(*cmd.Title); err != nil {
				return err
			}
		}

		if cmd.Priority != nil {
			// Priority changes through update follow the same swap rule as
			// assign-priority so the slot invariant survives a plain PUT.
			if *cmd.Priority < 1 {
				return task.ErrInvalidPriority
			}
			displaced, err = swapPriority(txCtx, h.taskRepo, t, *cmd.Priority)
			if err != nil {
				return err
			}
		}

		if cmd.Completed != nil {
			t.SetCompleted(*cmd.Completed)
		}

		if cmd.Meta != nil {
			t.SetMeta(*cmd.Meta)
		}

		if cmd.FocusDuration != nil {
			if err := t.SetFocusDuration(*cmd.FocusDuration); err != nil {
				return err
			}
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
