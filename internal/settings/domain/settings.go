// Package domain holds the single-row board settings.
package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
)

const (
	MinNumberOfTasks = 1
	MaxNumberOfTasks = 100

	DefaultNumberOfTasks = 7
)

// RowColors maps a board tier name to a display color.
type RowColors map[string]string

// Settings is the board configuration. Exactly one row exists; reads
// create it with defaults on first access.
type Settings struct {
	numberOfTasks          int
	showRemainingTodoCount bool
	rowColors              RowColors
	createdAt              time.Time
	updatedAt              time.Time
}

// DefaultSettings returns the settings used before any write.
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		numberOfTasks:          DefaultNumberOfTasks,
		showRemainingTodoCount: true,
		rowColors:              RowColors{},
		createdAt:              now.UTC(),
		updatedAt:              now.UTC(),
	}
}

// NewSettings validates and builds a settings value.
func NewSettings(numberOfTasks int, showRemainingTodoCount bool, rowColors RowColors, now time.Time) (*Settings, error) {
	if numberOfTasks < MinNumberOfTasks || numberOfTasks > MaxNumberOfTasks {
		return nil, sharedDomain.Validationf("numberOfTasks must be between %d and %d", MinNumberOfTasks, MaxNumberOfTasks)
	}
	if rowColors == nil {
		rowColors = RowColors{}
	}
	return &Settings{
		numberOfTasks:          numberOfTasks,
		showRemainingTodoCount: showRemainingTodoCount,
		rowColors:              rowColors,
		createdAt:              now.UTC(),
		updatedAt:              now.UTC(),
	}, nil
}

func (s *Settings) NumberOfTasks() int          { return s.numberOfTasks }
func (s *Settings) ShowRemainingTodoCount() bool { return s.showRemainingTodoCount }
func (s *Settings) RowColors() RowColors         { return s.rowColors }
func (s *Settings) CreatedAt() time.Time         { return s.createdAt }
func (s *Settings) UpdatedAt() time.Time         { return s.updatedAt }

// Rehydrated recreates settings from persisted state.
func Rehydrated(numberOfTasks int, showRemainingTodoCount bool, rowColors RowColors, createdAt, updatedAt time.Time) *Settings {
	if rowColors == nil {
		rowColors = RowColors{}
	}
	return &Settings{
		numberOfTasks:          numberOfTasks,
		showRemainingTodoCount: showRemainingTodoCount,
		rowColors:              rowColors,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}
