// Package application exposes read and write access to the board settings.
package application

import (
	"context"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/settings/domain"
)

// SettingsDTO is the transfer shape of the settings row.
type SettingsDTO struct {
	NumberOfTasks          int              `json:"numberOfTasks"`
	ShowRemainingTodoCount bool             `json:"showRemainingTodoCount"`
	RowColors              domain.RowColors `json:"rowColors"`
}

// UpdateSettingsCommand carries the full replacement settings value.
type UpdateSettingsCommand struct {
	NumberOfTasks          int
	ShowRemainingTodoCount bool
	RowColors              domain.RowColors
}

// SettingsService reads and writes the single settings row.
type SettingsService struct {
	repo domain.Repository
	now  func() time.Time
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo domain.Repository) *SettingsService {
	return &SettingsService{repo: repo, now: time.Now}
}

// Get returns the current settings, creating defaults on first read.
func (s *SettingsService) Get(ctx context.Context) (*SettingsDTO, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toDTO(settings), nil
}

// Update validates and replaces the settings row.
func (s *SettingsService) Update(ctx context.Context, cmd UpdateSettingsCommand) (*SettingsDTO, error) {
	settings, err := domain.NewSettings(cmd.NumberOfTasks, cmd.ShowRemainingTodoCount, cmd.RowColors, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return toDTO(settings), nil
}

func toDTO(s *domain.Settings) *SettingsDTO {
	return &SettingsDTO{
		NumberOfTasks:          s.NumberOfTasks(),
		ShowRemainingTodoCount: s.ShowRemainingTodoCount(),
		RowColors:              s.RowColors(),
	}
}
