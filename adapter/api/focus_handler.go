package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/focusboard/internal/focus/application/commands"
	"github.com/felixgeelhaar/focusboard/internal/focus/application/queries"
	"github.com/google/uuid"
)

// FocusHandler handles the focus timer API requests.
type FocusHandler struct {
	startSession  *commands.StartSessionHandler
	pauseSession  *commands.PauseSessionHandler
	resumeSession *commands.ResumeSessionHandler
	stopSession   *commands.StopSessionHandler
	activeSession *queries.ActiveSessionHandler
	logger        *slog.Logger
}

// FocusHandlerConfig holds dependencies for the focus handler.
type FocusHandlerConfig struct {
	StartSession  *commands.StartSessionHandler
	PauseSession  *commands.PauseSessionHandler
	ResumeSession *commands.ResumeSessionHandler
	StopSession   *commands.StopSessionHandler
	ActiveSession *queries.ActiveSessionHandler
	Logger        *slog.Logger
}

// NewFocusHandler creates a new focus handler.
func NewFocusHandler(cfg FocusHandlerConfig) *FocusHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &FocusHandler{
		startSession:  cfg.StartSession,
		pauseSession:  cfg.PauseSession,
		resumeSession: cfg.ResumeSession,
		stopSession:   cfg.StopSession,
		activeSession: cfg.ActiveSession,
		logger:        cfg.Logger,
	}
}

// Active handles GET /api/focus/active. A null data payload means no
// session is active.
func (h *FocusHandler) Active(w http.ResponseWriter, r *http.Request) {
	dto, err := h.activeSession.Handle(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if dto == nil {
		// Clients distinguish "no session" by an explicit data: null.
		writeData(w, http.StatusOK, json.RawMessage("null"))
		return
	}
	writeData(w, http.StatusOK, dto)
}

// Start handles POST /api/focus/{taskId}/start
func (h *FocusHandler) Start(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseFocusTaskID(w, r)
	if !ok {
		return
	}

	session, err := h.startSession.Handle(r.Context(), commands.StartSessionCommand{TaskID: taskID})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, queries.ToSessionDTO(session))
}

// Pause handles POST /api/focus/{taskId}/pause
func (h *FocusHandler) Pause(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseFocusTaskID(w, r)
	if !ok {
		return
	}

	session, err := h.pauseSession.Handle(r.Context(), taskID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToSessionDTO(session))
}

// Resume handles POST /api/focus/{taskId}/resume
func (h *FocusHandler) Resume(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseFocusTaskID(w, r)
	if !ok {
		return
	}

	session, err := h.resumeSession.Handle(r.Context(), taskID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToSessionDTO(session))
}

// Stop handles POST /api/focus/{taskId}/stop
func (h *FocusHandler) Stop(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseFocusTaskID(w, r)
	if !ok {
		return
	}

	session, err := h.stopSession.Handle(r.Context(), taskID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToSessionDTO(session))
}

func parseFocusTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("taskId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return uuid.Nil, false
	}
	return id, true
}
