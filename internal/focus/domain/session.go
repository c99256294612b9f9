// Package domain contains the focus session aggregate: a single timed work
// session per task, with at most one active session system-wide.
package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrSessionNotActive = sharedDomain.NotFoundf("no active focus session found for this task")
	ErrSessionNotPaused = sharedDomain.NotFoundf("no paused focus session found for this task")
	// ErrSessionStopped guards direct use of a stopped aggregate. Repository
	// lookups only surface active sessions, so handlers never see it.
	ErrSessionStopped = sharedDomain.Conflictf("focus session is already stopped")
)

// Session tracks one timed focus interval on a task.
//
// States: running (is_active, no paused_at) → paused (is_active, paused_at
// set) → running (resume) → stopped (terminal). elapsedSeconds accumulates
// whole seconds of running time, excluding the currently open interval.
type Session struct {
	sharedDomain.BaseAggregateRoot
	taskID         uuid.UUID
	startedAt      time.Time
	pausedAt       *time.Time
	stoppedAt      *time.Time
	elapsedSeconds int
	isActive       bool
}

// NewSession starts a fresh running session for the task.
func NewSession(taskID uuid.UUID, now time.Time) *Session {
	s := &Session{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		taskID:            taskID,
		startedAt:         now.UTC(),
		isActive:          true,
	}
	s.AddDomainEvent(NewFocusStarted(s.ID(), taskID))
	return s
}

// Getters

func (s *Session) TaskID() uuid.UUID     { return s.taskID }
func (s *Session) StartedAt() time.Time  { return s.startedAt }
func (s *Session) PausedAt() *time.Time  { return s.pausedAt }
func (s *Session) StoppedAt() *time.Time { return s.stoppedAt }
func (s *Session) ElapsedSeconds() int   { return s.elapsedSeconds }
func (s *Session) IsActive() bool        { return s.isActive }
func (s *Session) IsPaused() bool        { return s.isActive && s.pausedAt != nil }
func (s *Session) IsRunning() bool       { return s.isActive && s.pausedAt == nil }

// ElapsedAt reports total accumulated seconds at the given instant,
// including the open running interval. Never less than elapsedSeconds.
func (s *Session) ElapsedAt(now time.Time) int {
	if !s.IsRunning() {
		return s.elapsedSeconds
	}
	return s.elapsedSeconds + runningSeconds(s.startedAt, now)
}

// Pause freezes the running clock.
func (s *Session) Pause(now time.Time) error {
	if !s.isActive {
		return ErrSessionNotActive
	}
	if s.pausedAt != nil {
		return ErrSessionNotActive
	}
	now = now.UTC()
	s.elapsedSeconds += runningSeconds(s.startedAt, now)
	s.pausedAt = &now
	s.Touch()
	s.AddDomainEvent(NewFocusPaused(s.ID(), s.taskID, s.elapsedSeconds))
	return nil
}

// Resume restarts the clock from zero for the new interval; accumulated
// elapsed time is kept.
func (s *Session) Resume(now time.Time) error {
	if !s.isActive || s.pausedAt == nil {
		return ErrSessionNotPaused
	}
	s.startedAt = now.UTC()
	s.pausedAt = nil
	s.Touch()
	s.AddDomainEvent(NewFocusResumed(s.ID(), s.taskID))
	return nil
}

// Stop terminates the session. Running time is finalized; a paused session
// keeps its accumulated elapsed as-is.
func (s *Session) Stop(now time.Time) error {
	if !s.isActive {
		return ErrSessionStopped
	}
	now = now.UTC()
	if s.pausedAt == nil {
		s.elapsedSeconds += runningSeconds(s.startedAt, now)
	}
	s.isActive = false
	s.stoppedAt = &now
	s.Touch()
	s.AddDomainEvent(NewFocusStopped(s.ID(), s.taskID, s.elapsedSeconds))
	return nil
}

// DurationReached reports whether the session has accumulated the task's
// full focus duration at the given instant.
func (s *Session) DurationReached(now time.Time, focusDurationMinutes int) bool {
	if focusDurationMinutes < 1 {
		return false
	}
	return s.ElapsedAt(now) >= focusDurationMinutes*60
}

// runningSeconds is the floor of the interval length in whole seconds,
// never negative.
func runningSeconds(from, to time.Time) int {
	secs := int(to.Sub(from) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Rehydrated recreates a session from persisted state without events.
func Rehydrated(
	entity sharedDomain.BaseEntity,
	taskID uuid.UUID,
	startedAt time.Time,
	pausedAt *time.Time,
	stoppedAt *time.Time,
	elapsedSeconds int,
	isActive bool,
) *Session {
	return &Session{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity),
		taskID:            taskID,
		startedAt:         startedAt,
		pausedAt:          pausedAt,
		stoppedAt:         stoppedAt,
		elapsedSeconds:    elapsedSeconds,
		isActive:          isActive,
	}
}
