package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for focus session persistence. Sessions
// are never deleted directly; the task foreign key cascades on task removal.
type Repository interface {
	Save(ctx context.Context, session *Session) error
	// FindActive returns the single active session, or a not-found error.
	FindActive(ctx context.Context) (*Session, error)
	// FindActiveByTask returns the active session for the task, or a
	// not-found error.
	FindActiveByTask(ctx context.Context, taskID uuid.UUID) (*Session, error)
}
