package queries

import (
	"context"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	"github.com/google/uuid"
)

// GetTaskHandler returns a single task by id.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle executes the query.
func (h *GetTaskHandler) Handle(ctx context.Context, taskID uuid.UUID) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	dto := ToTaskDTO(t)
	return &dto, nil
}
