package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/focusboard/internal/settings/application"
	"github.com/felixgeelhaar/focusboard/internal/settings/domain"
)

// SettingsHandler handles the board settings API requests.
type SettingsHandler struct {
	service *application.SettingsService
	logger  *slog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service *application.SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{service: service, logger: logger}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	dto, err := h.service.Get(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, dto)
}

type updateSettingsRequest struct {
	NumberOfTasks          int              `json:"numberOfTasks"`
	ShowRemainingTodoCount bool             `json:"showRemainingTodoCount"`
	RowColors              domain.RowColors `json:"rowColors"`
}

// Update handles PUT /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dto, err := h.service.Update(r.Context(), application.UpdateSettingsCommand{
		NumberOfTasks:          req.NumberOfTasks,
		ShowRemainingTodoCount: req.ShowRemainingTodoCount,
		RowColors:              req.RowColors,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, dto)
}
