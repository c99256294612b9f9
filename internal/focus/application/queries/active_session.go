// Package queries contains the read side of the focus engine.
package queries

import (
	"context"
	"errors"
	"time"

	taskDomain "github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	"github.com/felixgeelhaar/focusboard/internal/focus/domain"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/google/uuid"
)

// SessionDTO is the transfer shape of a focus session, joined with the
// owning task's title and target duration the way clients consume it.
type SessionDTO struct {
	ID             uuid.UUID  `json:"id"`
	TaskID         uuid.UUID  `json:"task_id"`
	StartedAt      time.Time  `json:"started_at"`
	PausedAt       *time.Time `json:"paused_at"`
	StoppedAt      *time.Time `json:"stopped_at"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	IsActive       bool       `json:"is_active"`
	TaskTitle      string     `json:"title"`
	FocusDuration  *int       `json:"focus_duration,omitempty"`
}

// ActiveSessionHandler returns the single active session, if any.
type ActiveSessionHandler struct {
	sessionRepo domain.Repository
	taskRepo    taskDomain.Repository
}

// NewActiveSessionHandler creates a new ActiveSessionHandler.
func NewActiveSessionHandler(sessionRepo domain.Repository, taskRepo taskDomain.Repository) *ActiveSessionHandler {
	return &ActiveSessionHandler{sessionRepo: sessionRepo, taskRepo: taskRepo}
}

// Handle returns the active session with task details, or nil when no
// session is active.
func (h *ActiveSessionHandler) Handle(ctx context.Context) (*SessionDTO, error) {
	s, err := h.sessionRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sharedDomain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	t, err := h.taskRepo.FindByID(ctx, s.TaskID())
	if err != nil {
		return nil, err
	}

	dto := ToSessionDTO(s)
	dto.TaskTitle = t.Title()
	dto.FocusDuration = t.FocusDuration()
	return dto, nil
}

// ToSessionDTO converts a session aggregate into its transfer shape.
func ToSessionDTO(s *domain.Session) *SessionDTO {
	return &SessionDTO{
		ID:             s.ID(),
		TaskID:         s.TaskID(),
		StartedAt:      s.StartedAt(),
		PausedAt:       s.PausedAt(),
		StoppedAt:      s.StoppedAt(),
		ElapsedSeconds: s.ElapsedSeconds(),
		IsActive:       s.IsActive(),
	}
}
