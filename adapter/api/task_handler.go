package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/focusboard/internal/board/application/commands"
	"github.com/felixgeelhaar/focusboard/internal/board/application/queries"
	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	"github.com/google/uuid"
)

// TaskHandler handles the task board API requests.
type TaskHandler struct {
	createTask       *commands.CreateTaskHandler
	updateTask       *commands.UpdateTaskHandler
	toggleTask       *commands.ToggleTaskHandler
	deleteTask       *commands.DeleteTaskHandler
	deleteAllTasks   *commands.DeleteAllTasksHandler
	assignPriority   *commands.AssignPriorityHandler
	bulkReorder      *commands.BulkReorderHandler
	setFocusDuration *commands.SetFocusDurationHandler
	listTasks        *queries.ListTasksHandler
	getTask          *queries.GetTaskHandler
	boardView        *queries.BoardViewHandler
	logger           *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	CreateTask       *commands.CreateTaskHandler
	UpdateTask       *commands.UpdateTaskHandler
	ToggleTask       *commands.ToggleTaskHandler
	DeleteTask       *commands.DeleteTaskHandler
	DeleteAllTasks   *commands.DeleteAllTasksHandler
	AssignPriority   *commands.AssignPriorityHandler
	BulkReorder      *commands.BulkReorderHandler
	SetFocusDuration *commands.SetFocusDurationHandler
	ListTasks        *queries.ListTasksHandler
	GetTask          *queries.GetTaskHandler
	BoardView        *queries.BoardViewHandler
	Logger           *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TaskHandler{
		createTask:       cfg.CreateTask,
		updateTask:       cfg.UpdateTask,
		toggleTask:       cfg.ToggleTask,
		deleteTask:       cfg.DeleteTask,
		deleteAllTasks:   cfg.DeleteAllTasks,
		assignPriority:   cfg.AssignPriority,
		bulkReorder:      cfg.BulkReorder,
		setFocusDuration: cfg.SetFocusDuration,
		listTasks:        cfg.ListTasks,
		getTask:          cfg.GetTask,
		boardView:        cfg.BoardView,
		logger:           cfg.Logger,
	}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.listTasks.Handle(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeList(w, http.StatusOK, tasks, len(tasks))
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	dto, err := h.getTask.Handle(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, dto)
}

// Board handles GET /api/tasks/board
func (h *TaskHandler) Board(w http.ResponseWriter, r *http.Request) {
	view, err := h.boardView.Handle(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

type createTaskRequest struct {
	Title         string    `json:"title"`
	Priority      *int      `json:"priority"`
	Completed     bool      `json:"completed"`
	Meta          task.Meta `json:"meta"`
	FocusDuration *int      `json:"focus_duration"`
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.createTask.Handle(r.Context(), commands.CreateTaskCommand{
		Title:         req.Title,
		Priority:      req.Priority,
		Completed:     req.Completed,
		Meta:          req.Meta,
		FocusDuration: req.FocusDuration,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, queries.ToTaskDTO(created))
}

type updateTaskRequest struct {
	Title         *string    `json:"title"`
	Priority      *int       `json:"priority"`
	Completed     *bool      `json:"completed"`
	Meta          *task.Meta `json:"meta"`
	FocusDuration *int       `json:"focus_duration"`
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.updateTask.Handle(r.Context(), commands.UpdateTaskCommand{
		TaskID:        id,
		Title:         req.Title,
		Priority:      req.Priority,
		Completed:     req.Completed,
		Meta:          req.Meta,
		FocusDuration: req.FocusDuration,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToTaskDTO(updated))
}

// Toggle handles PATCH /api/tasks/{id}/toggle
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	toggled, err := h.toggleTask.Handle(r.Context(), commands.ToggleTaskCommand{TaskID: id})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToTaskDTO(toggled))
}

type assignPriorityRequest struct {
	Priority int `json:"priority"`
}

// AssignPriority handles PATCH /api/tasks/{id}/assign-priority
func (h *TaskHandler) AssignPriority(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var req assignPriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.assignPriority.Handle(r.Context(), commands.AssignPriorityCommand{
		TaskID:   id,
		Priority: req.Priority,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToTaskDTO(updated))
}

type bulkReorderRequest struct {
	Tasks []struct {
		ID           string `json:"id"`
		DisplayOrder *int   `json:"display_order"`
	} `json:"tasks"`
}

// BulkReorder handles PATCH /api/tasks/bulk-reorder
func (h *TaskHandler) BulkReorder(w http.ResponseWriter, r *http.Request) {
	var req bulkReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entries := make([]commands.ReorderEntry, len(req.Tasks))
	for i, t := range req.Tasks {
		entries[i] = commands.ReorderEntry{TaskID: t.ID, DisplayOrder: t.DisplayOrder}
	}

	count, err := h.bulkReorder.Handle(r.Context(), commands.BulkReorderCommand{Entries: entries})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Tasks reordered",
		Count:   &count,
	})
}

type focusDurationRequest struct {
	FocusDuration int `json:"focus_duration"`
}

// SetFocusDuration handles PATCH /api/tasks/{id}/focus-duration
func (h *TaskHandler) SetFocusDuration(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var req focusDurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.setFocusDuration.Handle(r.Context(), commands.SetFocusDurationCommand{
		TaskID:  id,
		Minutes: req.FocusDuration,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, queries.ToTaskDTO(updated))
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	deleted, err := h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{TaskID: id})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted", queries.ToTaskDTO(deleted))
}

// DeleteAll handles DELETE /api/tasks
func (h *TaskHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.deleteAllTasks.Handle(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	count := len(deleted)
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "All tasks deleted",
		Count:   &count,
	})
}

// parseTaskID reads the {id} path segment, writing a 400 on bad input.
func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return uuid.Nil, false
	}
	return id, true
}
