// Package persistence implements the focus session repository over the
// shared database abstraction.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/focus/domain"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const sessionColumns = "id, task_id, started_at, paused_at, stopped_at, elapsed_seconds, is_active, created_at, updated_at"

// SessionRepository implements domain.Repository.
type SessionRepository struct {
	conn   database.Connection
	driver database.Driver
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn database.Connection) *SessionRepository {
	return &SessionRepository{conn: conn, driver: conn.Driver()}
}

func (r *SessionRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SessionRepository) q(query string) string {
	return database.Rebind(r.driver, query)
}

// Save persists a session, inserting it on first save.
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	var pausedAt, stoppedAt any
	if s.PausedAt() != nil {
		pausedAt = s.PausedAt().UTC().Format(time.RFC3339)
	}
	if s.StoppedAt() != nil {
		stoppedAt = s.StoppedAt().UTC().Format(time.RFC3339)
	}

	result, err := r.exec(ctx).Exec(ctx, r.q(`
		UPDATE focus_sessions
		SET started_at = ?, paused_at = ?, stopped_at = ?,
		    elapsed_seconds = ?, is_active = ?, updated_at = ?
		WHERE id = ?`),
		s.StartedAt().UTC().Format(time.RFC3339), pausedAt, stoppedAt,
		s.ElapsedSeconds(), s.IsActive(),
		s.UpdatedAt().UTC().Format(time.RFC3339), s.ID().String(),
	)
	if err != nil {
		return sharedDomain.Storagef("update focus session", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("update focus session", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO focus_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID().String(), s.TaskID().String(),
		s.StartedAt().UTC().Format(time.RFC3339), pausedAt, stoppedAt,
		s.ElapsedSeconds(), s.IsActive(),
		s.CreatedAt().UTC().Format(time.RFC3339), s.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return sharedDomain.Storagef("insert focus session", err)
	}
	return nil
}

// FindActive returns the single active session.
func (r *SessionRepository) FindActive(ctx context.Context) (*domain.Session, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(
		"SELECT "+sessionColumns+" FROM focus_sessions WHERE is_active = ? LIMIT 1"), true)

	s, err := scanSession(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NotFoundf("no active focus session")
		}
		return nil, sharedDomain.Storagef("find active session", err)
	}
	return s, nil
}

// FindActiveByTask returns the active session for the task, if any.
func (r *SessionRepository) FindActiveByTask(ctx context.Context, taskID uuid.UUID) (*domain.Session, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(
		"SELECT "+sessionColumns+" FROM focus_sessions WHERE task_id = ? AND is_active = ? LIMIT 1"),
		taskID.String(), true)

	s, err := scanSession(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NotFoundf("no active focus session for task %s", taskID)
		}
		return nil, sharedDomain.Storagef("find active session by task", err)
	}
	return s, nil
}

func scanSession(row database.Row) (*domain.Session, error) {
	var (
		id             string
		taskID         string
		startedAt      string
		pausedAt       *string
		stoppedAt      *string
		elapsedSeconds int
		isActive       bool
		createdAt      string
		updatedAt      string
	)

	err := row.Scan(&id, &taskID, &startedAt, &pausedAt, &stoppedAt,
		&elapsedSeconds, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	ownerID, err := uuid.Parse(taskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}

	started, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at: %w", err)
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	paused, err := parseOptionalTime(pausedAt, "paused_at")
	if err != nil {
		return nil, err
	}
	stopped, err := parseOptionalTime(stoppedAt, "stopped_at")
	if err != nil {
		return nil, err
	}

	return domain.Rehydrated(
		sharedDomain.RehydrateBaseEntity(sessionID, created, updated),
		ownerID, started, paused, stopped, elapsedSeconds, isActive,
	), nil
}

func parseOptionalTime(value *string, column string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", column, err)
	}
	return &ts, nil
}
