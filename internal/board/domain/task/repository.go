package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindAll returns every task ordered by priority, then display order,
	// then creation instant.
	FindAll(ctx context.Context) ([]*Task, error)
	// ActivePriorities returns the priority slots currently held by active
	// (non-completed) tasks, ascending.
	ActivePriorities(ctx context.Context) ([]int, error)
	// FindActiveByPriority returns the active task holding the given slot,
	// or a not-found error when the slot is free.
	FindActiveByPriority(ctx context.Context, priority int) (*Task, error)
	// NextDisplayOrder returns max(display_order)+1. Callers run it inside
	// the same unit of work as the insert that uses it.
	NextDisplayOrder(ctx context.Context) (int, error)
	UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error
	// Delete removes the task and returns the deleted record.
	Delete(ctx context.Context, id uuid.UUID) (*Task, error)
	// DeleteAll removes every task and returns the deleted records.
	DeleteAll(ctx context.Context) ([]*Task, error)
	// DeleteCompletedBefore removes tasks completed before the cutoff and
	// returns the deleted records.
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*Task, error)
}
