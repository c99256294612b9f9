package commands

import (
	"context"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/google/uuid"
)

// ReorderEntry is one (task, display order) pair of a drag reorder.
type ReorderEntry struct {
	TaskID       string
	DisplayOrder *int
}

// BulkReorderCommand applies an ordered list of display-order updates as a
// single atomic unit.
type BulkReorderCommand struct {
	Entries []ReorderEntry
}

// BulkReorderHandler handles the BulkReorderCommand.
type BulkReorderHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
}

// NewBulkReorderHandler creates a new BulkReorderHandler.
func NewBulkReorderHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork) *BulkReorderHandler {
	return &BulkReorderHandler{
		taskRepo: taskRepo,
		uow:      uow,
	}
}

// Handle applies every entry or none: a malformed entry or an unknown task
// rolls the whole batch back. Returns the number of updated tasks.
func (h *BulkReorderHandler) Handle(ctx context.Context, cmd BulkReorderCommand) (int, error) {
	if len(cmd.Entries) == 0 {
		return 0, sharedDomain.Validationf("tasks array is required")
	}

	// Validate the full batch before touching storage.
	ids := make([]uuid.UUID, len(cmd.Entries))
	for i, entry := range cmd.Entries {
		if entry.TaskID == "" || entry.DisplayOrder == nil {
			return 0, sharedDomain.Validationf("each task must have id and display_order")
		}
		id, err := uuid.Parse(entry.TaskID)
		if err != nil {
			return 0, sharedDomain.Validationf("invalid task id %q", entry.TaskID)
		}
		ids[i] = id
	}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for i, entry := range cmd.Entries {
			if err := h.taskRepo.UpdateDisplayOrder(txCtx, ids[i], *entry.DisplayOrder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(cmd.Entries), nil
}
