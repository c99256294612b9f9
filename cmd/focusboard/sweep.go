package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/focusboard/internal/app"
	"github.com/felixgeelhaar/focusboard/pkg/config"
	"github.com/felixgeelhaar/focusboard/pkg/observability"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired completed tasks once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context())
	},
}

func runSweep(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.LoggerFromEnv()

	// One-shot mode does not need the cron scheduler.
	cfg.RetentionSweepEnabled = false

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	count, err := container.Sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	logger.Info("sweep finished", "removed", count)
	return nil
}
