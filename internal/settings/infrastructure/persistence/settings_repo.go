// Package persistence stores the settings singleton row.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/settings/domain"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database"
)

// SettingsRepository implements domain.Repository on the shared connection.
type SettingsRepository struct {
	conn   database.Connection
	driver database.Driver
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(conn database.Connection) *SettingsRepository {
	return &SettingsRepository{conn: conn, driver: conn.Driver()}
}

func (r *SettingsRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SettingsRepository) q(query string) string {
	return database.Rebind(r.driver, query)
}

// Get returns the settings row, creating the default row when missing.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	row := r.exec(ctx).QueryRow(ctx,
		"SELECT number_of_tasks, show_remaining_todo_count, row_colors, created_at, updated_at FROM settings WHERE id = 1")

	s, err := scanSettings(row)
	if err != nil {
		if database.IsNoRows(err) {
			defaults := domain.DefaultSettings(time.Now())
			if err := r.Save(ctx, defaults); err != nil {
				return nil, err
			}
			return defaults, nil
		}
		return nil, sharedDomain.Storagef("find settings", err)
	}
	return s, nil
}

// Save upserts the single row.
func (r *SettingsRepository) Save(ctx context.Context, s *domain.Settings) error {
	rowColors, err := json.Marshal(s.RowColors())
	if err != nil {
		return fmt.Errorf("failed to encode row colors: %w", err)
	}

	result, err := r.exec(ctx).Exec(ctx, r.q(`
		UPDATE settings
		SET number_of_tasks = ?, show_remaining_todo_count = ?, row_colors = ?, updated_at = ?
		WHERE id = 1`),
		s.NumberOfTasks(), s.ShowRemainingTodoCount(), string(rowColors),
		s.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return sharedDomain.Storagef("update settings", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("update settings", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO settings (id, number_of_tasks, show_remaining_todo_count, row_colors, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)`),
		s.NumberOfTasks(), s.ShowRemainingTodoCount(), string(rowColors),
		s.CreatedAt().UTC().Format(time.RFC3339), s.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return sharedDomain.Storagef("insert settings", err)
	}
	return nil
}

func scanSettings(row database.Row) (*domain.Settings, error) {
	var (
		numberOfTasks          int
		showRemainingTodoCount bool
		rowColorsRaw           string
		createdAt              string
		updatedAt              string
	)

	if err := row.Scan(&numberOfTasks, &showRemainingTodoCount, &rowColorsRaw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	var rowColors domain.RowColors
	if rowColorsRaw != "" {
		if err := json.Unmarshal([]byte(rowColorsRaw), &rowColors); err != nil {
			return nil, fmt.Errorf("invalid row_colors: %w", err)
		}
	}

	return domain.Rehydrated(numberOfTasks, showRemainingTodoCount, rowColors, created, updated), nil
}
