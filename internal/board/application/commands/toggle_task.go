package commands

import (
	"context"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ToggleTaskCommand flips a task's completion state.
type ToggleTaskCommand struct {
	TaskID uuid.UUID
}

// ToggleTaskHandler handles the ToggleTaskCommand.
type ToggleTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
}

// NewToggleTaskHandler creates a new ToggleTaskHandler.
func NewToggleTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *ToggleTaskHandler {
	return &ToggleTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// Handle executes the ToggleTaskCommand and returns the updated task.
func (h *ToggleTaskHandler) Handle(ctx context.Context, cmd ToggleTaskCommand) (*task.Task, error) {
	var toggled *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		t.ToggleCompletion()

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		toggled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := eventbus.PublishAll(ctx, h.publisher, toggled); err != nil {
		return nil, err
	}
	return toggled, nil
}
