package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/focusboard/internal/quotes"
)

// QuoteHandler handles the quote-of-the-day API requests.
type QuoteHandler struct {
	service *quotes.Service
	logger  *slog.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *quotes.Service, logger *slog.Logger) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{service: service, logger: logger}
}

// Get handles GET /api/quote
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusServiceUnavailable, "Quote service is not configured")
		return
	}

	quote, err := h.service.Get(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, quote)
}
