package task

import (
	"github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated          = "board.task.created"
	RoutingKeyCompleted        = "board.task.completed"
	RoutingKeyReopened         = "board.task.reopened"
	RoutingKeyPriorityAssigned = "board.task.priority_assigned"
	RoutingKeyDeleted          = "board.task.deleted"
	RoutingKeyExpired          = "board.task.expired"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title string `json:"title"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID uuid.UUID, title string) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		Title:     title,
	}
}

// TaskCompleted is emitted when a task transitions to completed.
type TaskCompleted struct {
	domain.BaseEvent
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID uuid.UUID) TaskCompleted {
	return TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
	}
}

// TaskReopened is emitted when a completed task is toggled back.
type TaskReopened struct {
	domain.BaseEvent
}

// NewTaskReopened creates a TaskReopened event.
func NewTaskReopened(taskID uuid.UUID) TaskReopened {
	return TaskReopened{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyReopened),
	}
}

// TaskPriorityAssigned is emitted when a task moves between priority slots.
type TaskPriorityAssigned struct {
	domain.BaseEvent
	OldPriority int `json:"old_priority"`
	NewPriority int `json:"new_priority"`
}

// NewTaskPriorityAssigned creates a TaskPriorityAssigned event.
func NewTaskPriorityAssigned(taskID uuid.UUID, oldPriority, newPriority int) TaskPriorityAssigned {
	return TaskPriorityAssigned{
		BaseEvent:   domain.NewBaseEvent(taskID, AggregateType, RoutingKeyPriorityAssigned),
		OldPriority: oldPriority,
		NewPriority: newPriority,
	}
}

// TaskDeleted is emitted when a task is removed from the board.
type TaskDeleted struct {
	domain.BaseEvent
	Title string `json:"title"`
	// Expired is true when the retention sweeper deleted the task.
	Expired bool `json:"expired"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID uuid.UUID, title string, expired bool) TaskDeleted {
	key := RoutingKeyDeleted
	if expired {
		key = RoutingKeyExpired
	}
	return TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, key),
		Title:     title,
		Expired:   expired,
	}
}
