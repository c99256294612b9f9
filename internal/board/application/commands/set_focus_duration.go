package commands

import (
	"context"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/google/uuid"
)

// SetFocusDurationCommand sets the target focus duration for a task.
type SetFocusDurationCommand struct {
	TaskID  uuid.UUID
	Minutes int
}

// SetFocusDurationHandler handles the SetFocusDurationCommand.
type SetFocusDurationHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
}

// NewSetFocusDurationHandler creates a new SetFocusDurationHandler.
func NewSetFocusDurationHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork) *SetFocusDurationHandler {
	return &SetFocusDurationHandler{
		taskRepo: taskRepo,
		uow:      uow,
	}
}

// Handle executes the SetFocusDurationCommand and returns the updated task.
func (h *SetFocusDurationHandler) Handle(ctx context.Context, cmd SetFocusDurationCommand) (*task.Task, error) {
	var updated *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if err := t.SetFocusDuration(cmd.Minutes); err != nil {
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

	return updated, nil
}
