package domain

import "context"

// Repository stores the single settings row.
type Repository interface {
	// Get returns the settings, creating the default row if none exists.
	Get(ctx context.Context) (*Settings, error)
	// Save upserts the settings row.
	Save(ctx context.Context, s *Settings) error
}
