// Package commands contains the state-changing operations of the board:
// task CRUD, priority slot assignment, and drag reordering. Every handler
// runs its reads and writes inside a single unit of work.
package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title string
	// Priority is the requested slot. When nil the lowest free slot among
	// active incomplete tasks is assigned.
	Priority      *int
	Completed     bool
	Meta          task.Meta
	FocusDuration *int
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
	}
}

// Handle executes the CreateTaskCommand and returns the created task.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	var created *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := task.NewTask(cmd.Title)
		if err != nil {
			return err
		}

		if cmd.Meta != nil {
			t.SetMeta(cmd.Meta)
		}

		if cmd.FocusDuration != nil {
			if err := t.SetFocusDuration(*cmd.FocusDuration); err != nil {
				return err
			}
		}

		if err := h.assignSlot(txCtx, t, cmd.Priority); err != nil {
			return err
		}

		// max+1 append, read under the same transaction as the insert so
		// concurrent creates cannot observe the same max.
		order, err := h.taskRepo.NextDisplayOrder(txCtx)
		if err != nil {
			return err
		}
		t.SetDisplayOrder(order)

		if cmd.Completed {
			t.SetCompleted(true)
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := eventbus.PublishAll(ctx, h.publisher, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (h *CreateTaskHandler) assignSlot(ctx context.Context, t *task.Task, requested *int) error {
	if requested == nil {
		taken, err := h.taskRepo.ActivePriorities(ctx)
		if err != nil {
			return err
		}
		return t.SetPriority(task.NextFreeSlot(taken))
	}

	if *requested < 1 {
		return task.ErrInvalidPriority
	}
	// A brand-new task has no old slot to trade, so an occupied slot is a
	// conflict rather than a swap.
	_, err := h.taskRepo.FindActiveByPriority(ctx, *requested)
	if err == nil {
		return sharedDomain.Conflictf("priority %d is already taken", *requested)
	}
	if !errors.Is(err, sharedDomain.ErrNotFound) {
		return err
	}
	return t.SetPriority(*requested)
}
