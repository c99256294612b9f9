package commands

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// DeleteTaskCommand removes a single task.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// Handle executes the DeleteTaskCommand and returns the deleted task so
// callers can log or react to it.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (*task.Task, error) {
	var deleted *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.Delete(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := publishDeleted(ctx, h.publisher, deleted, false); err != nil {
		return nil, err
	}
	return deleted, nil
}

// DeleteAllTasksHandler removes every task on the board.
type DeleteAllTasksHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
}

// NewDeleteAllTasksHandler creates a new DeleteAllTasksHandler.
func NewDeleteAllTasksHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *DeleteAllTasksHandler {
	return &DeleteAllTasksHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// Handle deletes all tasks and returns the deleted records.
func (h *DeleteAllTasksHandler) Handle(ctx context.Context) ([]*task.Task, error) {
	var deleted []*task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		ts, err := h.taskRepo.DeleteAll(txCtx)
		if err != nil {
			return err
		}
		deleted = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, t := range deleted {
		if err := publishDeleted(ctx, h.publisher, t, false); err != nil {
			return nil, err
		}
	}
	return deleted, nil
}

// publishDeleted emits a TaskDeleted event for a removed task. Deletion
// happens at the repository level, so the event is built here rather than on
// the aggregate.
func publishDeleted(ctx context.Context, pub eventbus.Publisher, t *task.Task, expired bool) error {
	if pub == nil || t == nil {
		return nil
	}
	event := task.NewTaskDeleted(t.ID(), t.Title(), expired)
	payload, err := json.Marshal(eventbus.NewEnvelope(ctx, event))
	if err != nil {
		return err
	}
	return pub.Publish(ctx, event.RoutingKey(), payload)
}
