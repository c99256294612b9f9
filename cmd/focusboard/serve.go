package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/focusboard/adapter/api"
	"github.com/felixgeelhaar/focusboard/internal/app"
	"github.com/felixgeelhaar/focusboard/pkg/config"
	"github.com/felixgeelhaar/focusboard/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.LoggerFromEnv()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	if container.Scheduler != nil {
		container.Scheduler.Start()
	}

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = fmt.Sprintf("0.0.0.0:%d", cfg.Port)

	server := api.NewServer(serverCfg, api.ServerDeps{
		Tasks: api.NewTaskHandler(api.TaskHandlerConfig{
			CreateTask:       container.CreateTask,
			UpdateTask:       container.UpdateTask,
			ToggleTask:       container.ToggleTask,
			DeleteTask:       container.DeleteTask,
			DeleteAllTasks:   container.DeleteAllTasks,
			AssignPriority:   container.AssignPriority,
			BulkReorder:      container.BulkReorder,
			SetFocusDuration: container.SetFocusDuration,
			ListTasks:        container.ListTasks,
			GetTask:          container.GetTask,
			BoardView:        container.BoardView,
			Logger:           logger,
		}),
		Focus: api.NewFocusHandler(api.FocusHandlerConfig{
			StartSession:  container.StartSession,
			PauseSession:  container.PauseSession,
			ResumeSession: container.ResumeSession,
			StopSession:   container.StopSession,
			ActiveSession: container.ActiveSession,
			Logger:        logger,
		}),
		Settings: api.NewSettingsHandler(container.Settings, logger),
		Quote:    api.NewQuoteHandler(container.Quotes, logger),
		Health:   container.Health,
		Metrics:  container.Metrics,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
