package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/focusboard/internal/quotes"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
)

// envelope is the response shape all endpoints share.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Log error but can't do much at this point
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeData writes a successful response with a data payload.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeList writes a successful response carrying a collection and its count.
func writeList(w http.ResponseWriter, status int, data any, count int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count})
}

// writeMessage writes a successful response with a human-readable message.
func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError writes a failed response with the given error text.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// writeDomainError maps a domain error onto an HTTP status. Unexpected
// errors are hidden behind a generic message; callers log the detail.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, sharedDomain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sharedDomain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sharedDomain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quotes.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
