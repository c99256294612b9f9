// Package queries contains the read side of the board.
package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Timestamp     int64      `json:"timestamp"`
	Priority      int        `json:"priority"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	DisplayOrder  int        `json:"display_order"`
	Meta          task.Meta  `json:"meta"`
	FocusDuration *int       `json:"focus_duration,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListTasksHandler returns all tasks in board order.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle returns every task ordered by priority, display order, timestamp.
func (h *ListTasksHandler) Handle(ctx context.Context) ([]TaskDTO, error) {
	tasks, err := h.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toTaskDTOs(tasks), nil
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

// ToTaskDTO converts a task aggregate into its transfer shape.
func ToTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID(),
		Title:         t.Title(),
		Timestamp:     t.Timestamp(),
		Priority:      t.Priority(),
		Completed:     t.Completed(),
		CompletedAt:   t.CompletedAt(),
		DisplayOrder:  t.DisplayOrder(),
		Meta:          t.Meta(),
		FocusDuration: t.FocusDuration(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}
