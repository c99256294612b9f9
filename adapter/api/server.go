// Package api provides the HTTP surface of the focusboard backend.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/focusboard/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	health   *observability.HealthRegistry
	tasks    *TaskHandler
	focus    *FocusHandler
	settings *SettingsHandler
	quote    *QuoteHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:5000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// ServerDeps holds the handlers and shared services the server exposes.
type ServerDeps struct {
	Tasks    *TaskHandler
	Focus    *FocusHandler
	Settings *SettingsHandler
	Quote    *QuoteHandler
	Health   *observability.HealthRegistry
	Metrics  observability.Metrics
	Logger   *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:      mux,
		logger:   deps.Logger,
		health:   deps.Health,
		tasks:    deps.Tasks,
		focus:    deps.Focus,
		settings: deps.Settings,
		quote:    deps.Quote,
	}

	// Register routes
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      requestLogging(deps.Logger, deps.Metrics, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Task board
	s.mux.HandleFunc("GET /api/tasks", s.tasks.List)
	s.mux.HandleFunc("POST /api/tasks", s.tasks.Create)
	s.mux.HandleFunc("DELETE /api/tasks", s.tasks.DeleteAll)
	s.mux.HandleFunc("GET /api/tasks/board", s.tasks.Board)
	s.mux.HandleFunc("PATCH /api/tasks/bulk-reorder", s.tasks.BulkReorder)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.tasks.Get)
	s.mux.HandleFunc("PUT /api/tasks/{id}", s.tasks.Update)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.tasks.Delete)
	s.mux.HandleFunc("PATCH /api/tasks/{id}/toggle", s.tasks.Toggle)
	s.mux.HandleFunc("PATCH /api/tasks/{id}/assign-priority", s.tasks.AssignPriority)
	s.mux.HandleFunc("PATCH /api/tasks/{id}/focus-duration", s.tasks.SetFocusDuration)

	// Focus timer
	s.mux.HandleFunc("GET /api/focus/active", s.focus.Active)
	s.mux.HandleFunc("POST /api/focus/{taskId}/start", s.focus.Start)
	s.mux.HandleFunc("POST /api/focus/{taskId}/pause", s.focus.Pause)
	s.mux.HandleFunc("POST /api/focus/{taskId}/resume", s.focus.Resume)
	s.mux.HandleFunc("POST /api/focus/{taskId}/stop", s.focus.Stop)

	// Settings
	s.mux.HandleFunc("GET /api/settings", s.settings.Get)
	s.mux.HandleFunc("PUT /api/settings", s.settings.Update)

	// Quote of the day
	s.mux.HandleFunc("GET /api/quote", s.quote.Get)
}

// handleHealth reports storage health alongside overall status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.GetOverallHealth(r.Context())

	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	dbStatus := "unknown"
	if db, ok := health.Checks["database"]; ok {
		dbStatus = string(db.Status)
	}

	writeJSON(w, status, envelope{
		Success: health.Status != observability.HealthStatusUnhealthy,
		Data: map[string]any{
			"status":   health.Status,
			"message":  fmt.Sprintf("focusboard API is %s", health.Status),
			"database": dbStatus,
			"checks":   health.Checks,
		},
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
