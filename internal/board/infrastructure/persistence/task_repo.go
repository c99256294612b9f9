// Package persistence implements the board repositories over the shared
// database abstraction, so one implementation serves SQLite and PostgreSQL.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const taskColumns = "id, title, timestamp, priority, completed, completed_at, display_order, meta, focus_duration, created_at, updated_at"

// TaskRepository implements task.Repository.
type TaskRepository struct {
	conn   database.Connection
	driver database.Driver
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn, driver: conn.Driver()}
}

func (r *TaskRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *TaskRepository) q(query string) string {
	return database.Rebind(r.driver, query)
}

// Save persists a task, inserting it on first save.
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) error {
	meta, err := json.Marshal(t.Meta())
	if err != nil {
		return fmt.Errorf("failed to encode meta: %w", err)
	}

	var completedAt any
	if t.CompletedAt() != nil {
		completedAt = t.CompletedAt().UTC().Format(time.RFC3339)
	}
	var focusDuration any
	if t.FocusDuration() != nil {
		focusDuration = *t.FocusDuration()
	}

	result, err := r.exec(ctx).Exec(ctx, r.q(`
		UPDATE tasks
		SET title = ?, priority = ?, completed = ?, completed_at = ?,
		    display_order = ?, meta = ?, focus_duration = ?, updated_at = ?
		WHERE id = ?`),
		t.Title(), t.Priority(), t.Completed(), completedAt,
		t.DisplayOrder(), string(meta), focusDuration,
		t.UpdatedAt().UTC().Format(time.RFC3339), t.ID().String(),
	)
	if err != nil {
		return sharedDomain.Storagef("update task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("update task", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID().String(), t.Title(), t.Timestamp(), t.Priority(), t.Completed(),
		completedAt, t.DisplayOrder(), string(meta), focusDuration,
		t.CreatedAt().UTC().Format(time.RFC3339), t.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return sharedDomain.Storagef("insert task", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id.String())

	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NotFoundf("task %s", id)
		}
		return nil, sharedDomain.Storagef("find task", err)
	}
	return t, nil
}

// FindAll retrieves every task in board order.
func (r *TaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.exec(ctx).Query(ctx, r.q(
		"SELECT "+taskColumns+" FROM tasks ORDER BY priority ASC, display_order ASC, timestamp ASC"))
	if err != nil {
		return nil, sharedDomain.Storagef("list tasks", err)
	}
	return collectTasks(rows)
}

// ActivePriorities returns the slots held by non-completed tasks, ascending.
func (r *TaskRepository) ActivePriorities(ctx context.Context) ([]int, error) {
	rows, err := r.exec(ctx).Query(ctx, r.q(
		"SELECT priority FROM tasks WHERE completed = ? ORDER BY priority ASC"), false)
	if err != nil {
		return nil, sharedDomain.Storagef("list active priorities", err)
	}
	defer rows.Close()

	var priorities []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, sharedDomain.Storagef("scan priority", err)
		}
		priorities = append(priorities, p)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.Storagef("list active priorities", err)
	}
	return priorities, nil
}

// FindActiveByPriority returns the active task holding the slot.
func (r *TaskRepository) FindActiveByPriority(ctx context.Context, priority int) (*task.Task, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(
		"SELECT "+taskColumns+" FROM tasks WHERE priority = ? AND completed = ? LIMIT 1"),
		priority, false)

	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NotFoundf("no active task at priority %d", priority)
		}
		return nil, sharedDomain.Storagef("find task by priority", err)
	}
	return t, nil
}

// NextDisplayOrder returns max(display_order)+1.
func (r *TaskRepository) NextDisplayOrder(ctx context.Context) (int, error) {
	row := r.exec(ctx).QueryRow(ctx,
		"SELECT COALESCE(MAX(display_order), 0) + 1 FROM tasks")

	var next int
	if err := row.Scan(&next); err != nil {
		return 0, sharedDomain.Storagef("next display order", err)
	}
	return next, nil
}

// UpdateDisplayOrder sets the display order of a single task.
func (r *TaskRepository) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	result, err := r.exec(ctx).Exec(ctx, r.q(
		"UPDATE tasks SET display_order = ?, updated_at = ? WHERE id = ?"),
		order, time.Now().UTC().Format(time.RFC3339), id.String())
	if err != nil {
		return sharedDomain.Storagef("update display order", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("update display order", err)
	}
	if affected == 0 {
		return sharedDomain.NotFoundf("task %s", id)
	}
	return nil
}

// Delete removes a task and returns the deleted record.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.exec(ctx).Exec(ctx, r.q("DELETE FROM tasks WHERE id = ?"), id.String()); err != nil {
		return nil, sharedDomain.Storagef("delete task", err)
	}
	return t, nil
}

// DeleteAll removes every task and returns the deleted records.
func (r *TaskRepository) DeleteAll(ctx context.Context) ([]*task.Task, error) {
	tasks, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := r.exec(ctx).Exec(ctx, "DELETE FROM tasks"); err != nil {
		return nil, sharedDomain.Storagef("delete all tasks", err)
	}
	return tasks, nil
}

// DeleteCompletedBefore removes tasks completed before the cutoff. RFC3339
// strings in UTC compare chronologically, so the cutoff works as text.
func (r *TaskRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*task.Task, error) {
	cutoffStr := cutoff.UTC().Format(time.RFC3339)

	rows, err := r.exec(ctx).Query(ctx, r.q(
		"SELECT "+taskColumns+" FROM tasks WHERE completed = ? AND completed_at IS NOT NULL AND completed_at < ?"),
		true, cutoffStr)
	if err != nil {
		return nil, sharedDomain.Storagef("find expired tasks", err)
	}
	expired, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	_, err = r.exec(ctx).Exec(ctx, r.q(
		"DELETE FROM tasks WHERE completed = ? AND completed_at IS NOT NULL AND completed_at < ?"),
		true, cutoffStr)
	if err != nil {
		return nil, sharedDomain.Storagef("delete expired tasks", err)
	}
	return expired, nil
}

func collectTasks(rows database.Rows) ([]*task.Task, error) {
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.Storagef("iterate tasks", err)
	}
	return tasks, nil
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		id            string
		title         string
		timestamp     int64
		priority      int
		completed     bool
		completedAt   *string
		displayOrder  int
		metaRaw       string
		focusDuration *int
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(&id, &title, &timestamp, &priority, &completed, &completedAt,
		&displayOrder, &metaRaw, &focusDuration, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	var completedTime *time.Time
	if completedAt != nil {
		ts, err := time.Parse(time.RFC3339, *completedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at: %w", err)
		}
		completedTime = &ts
	}

	var meta task.Meta
	if metaRaw != "" {
		if err := json.Unmarshal([]byte(metaRaw), &meta); err != nil {
			return nil, fmt.Errorf("invalid meta: %w", err)
		}
	}

	return task.Rehydrated(
		sharedDomain.RehydrateBaseEntity(taskID, created, updated),
		title, timestamp, priority, completed, completedTime,
		displayOrder, meta, focusDuration,
	), nil
}
