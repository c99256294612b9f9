package domain

import (
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "FocusSession"

	RoutingKeyStarted = "focus.session.started"
	RoutingKeyPaused  = "focus.session.paused"
	RoutingKeyResumed = "focus.session.resumed"
	RoutingKeyStopped = "focus.session.stopped"
	RoutingKeyExpired = "focus.session.expired"
)

// FocusStarted is emitted when a session starts.
type FocusStarted struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
}

// NewFocusStarted creates a FocusStarted event.
func NewFocusStarted(sessionID, taskID uuid.UUID) FocusStarted {
	return FocusStarted{
		BaseEvent: sharedDomain.NewBaseEvent(sessionID, AggregateType, RoutingKeyStarted),
		TaskID:    taskID,
	}
}

// FocusPaused is emitted when a session is paused.
type FocusPaused struct {
	sharedDomain.BaseEvent
	TaskID         uuid.UUID `json:"task_id"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// NewFocusPaused creates a FocusPaused event.
func NewFocusPaused(sessionID, taskID uuid.UUID, elapsedSeconds int) FocusPaused {
	return FocusPaused{
		BaseEvent:      sharedDomain.NewBaseEvent(sessionID, AggregateType, RoutingKeyPaused),
		TaskID:         taskID,
		ElapsedSeconds: elapsedSeconds,
	}
}

// FocusResumed is emitted when a paused session resumes.
type FocusResumed struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
}

// NewFocusResumed creates a FocusResumed event.
func NewFocusResumed(sessionID, taskID uuid.UUID) FocusResumed {
	return FocusResumed{
		BaseEvent: sharedDomain.NewBaseEvent(sessionID, AggregateType, RoutingKeyResumed),
		TaskID:    taskID,
	}
}

// FocusStopped is emitted when a session terminates.
type FocusStopped struct {
	sharedDomain.BaseEvent
	TaskID         uuid.UUID `json:"task_id"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// NewFocusStopped creates a FocusStopped event.
func NewFocusStopped(sessionID, taskID uuid.UUID, elapsedSeconds int) FocusStopped {
	return FocusStopped{
		BaseEvent:      sharedDomain.NewBaseEvent(sessionID, AggregateType, RoutingKeyStopped),
		TaskID:         taskID,
		ElapsedSeconds: elapsedSeconds,
	}
}

// FocusExpired is emitted when a session reaches its task's focus duration
// and is stopped automatically.
type FocusExpired struct {
	sharedDomain.BaseEvent
	TaskID         uuid.UUID `json:"task_id"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// NewFocusExpired creates a FocusExpired event.
func NewFocusExpired(sessionID, taskID uuid.UUID, elapsedSeconds int) FocusExpired {
	return FocusExpired{
		BaseEvent:      sharedDomain.NewBaseEvent(sessionID, AggregateType, RoutingKeyExpired),
		TaskID:         taskID,
		ElapsedSeconds: elapsedSeconds,
	}
}
