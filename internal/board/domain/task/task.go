// Package task contains the task aggregate and the priority slot rules of
// the board: every active task occupies exactly one positive priority slot.
package task

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/shared/domain"
)

var (
	ErrEmptyTitle       = domain.Validationf("task title is required")
	ErrInvalidPriority  = domain.Validationf("priority must be a positive integer")
	ErrInvalidFocusTime = domain.Validationf("focus_duration must be a positive number of minutes")
)

// Meta is the open mapping of presentation data carried on a task. The board
// view reads tier and position from it; the store never interprets it.
type Meta map[string]any

// Task represents a single entry on the board.
type Task struct {
	domain.BaseAggregateRoot
	title         string
	timestamp     int64 // creation instant, epoch milliseconds
	priority      int
	completed     bool
	completedAt   *time.Time
	displayOrder  int
	meta          Meta
	focusDuration *int // minutes
}

// NewTask creates a new task with the given title. Priority and display
// order are assigned by the create command before first save.
func NewTask(title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		title:             title,
		timestamp:         time.Now().UTC().UnixMilli(),
		meta:              Meta{},
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title))

	return t, nil
}

// Getters

func (t *Task) Title() string           { return t.title }
func (t *Task) Timestamp() int64        { return t.timestamp }
func (t *Task) Priority() int           { return t.priority }
func (t *Task) Completed() bool         { return t.completed }
func (t *Task) CompletedAt() *time.Time { return t.completedAt }
func (t *Task) DisplayOrder() int       { return t.displayOrder }
func (t *Task) FocusDuration() *int     { return t.focusDuration }

// Meta returns a copy of the task's meta mapping.
func (t *Task) Meta() Meta {
	m := make(Meta, len(t.meta))
	for k, v := range t.meta {
		m[k] = v
	}
	return m
}

// IsActive reports whether the task occupies its priority slot: deleted rows
// are gone and completed tasks release their slot for reuse.
func (t *Task) IsActive() bool {
	return !t.completed
}

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetPriority moves the task into a priority slot.
func (t *Task) SetPriority(priority int) error {
	if priority < 1 {
		return ErrInvalidPriority
	}
	if t.priority != priority {
		t.AddDomainEvent(NewTaskPriorityAssigned(t.ID(), t.priority, priority))
	}
	t.priority = priority
	t.Touch()
	return nil
}

// SetDisplayOrder updates the manual drag position.
func (t *Task) SetDisplayOrder(order int) {
	t.displayOrder = order
	t.Touch()
}

// SetMeta replaces the meta mapping.
func (t *Task) SetMeta(meta Meta) {
	if meta == nil {
		meta = Meta{}
	}
	t.meta = meta
	t.Touch()
}

// SetFocusDuration sets the target focus duration in minutes.
func (t *Task) SetFocusDuration(minutes int) error {
	if minutes < 1 {
		return ErrInvalidFocusTime
	}
	t.focusDuration = &minutes
	t.Touch()
	return nil
}

// SetCompleted sets the completion state directly. completed_at tracks the
// false→true edge and is cleared on the way back.
func (t *Task) SetCompleted(completed bool) {
	if t.completed == completed {
		return
	}
	t.applyCompletion(completed)
}

// ToggleCompletion flips the completion state.
func (t *Task) ToggleCompletion() {
	t.applyCompletion(!t.completed)
}

func (t *Task) applyCompletion(completed bool) {
	t.completed = completed
	if completed {
		now := time.Now().UTC()
		t.completedAt = &now
		t.AddDomainEvent(NewTaskCompleted(t.ID()))
	} else {
		t.completedAt = nil
		t.AddDomainEvent(NewTaskReopened(t.ID()))
	}
	t.Touch()
}

// Rehydrated recreates a task from persisted state. It bypasses validation
// and emits no events.
func Rehydrated(
	entity domain.BaseEntity,
	title string,
	timestamp int64,
	priority int,
	completed bool,
	completedAt *time.Time,
	displayOrder int,
	meta Meta,
	focusDuration *int,
) *Task {
	if meta == nil {
		meta = Meta{}
	}
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(entity),
		title:             title,
		timestamp:         timestamp,
		priority:          priority,
		completed:         completed,
		completedAt:       completedAt,
		displayOrder:      displayOrder,
		meta:              meta,
		focusDuration:     focusDuration,
	}
}
