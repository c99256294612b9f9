package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/focusboard/pkg/observability"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging attaches request and correlation IDs to the context and
// logs every request with its status, duration, and metrics. The correlation
// ID travels with events published during the request.
func requestLogging(logger *slog.Logger, metrics observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
		ctx = observability.WithCorrelationID(ctx, r.Header.Get("X-Correlation-Id"))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		duration := time.Since(start)
		logger.InfoContext(ctx, "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds(),
		)

		tags := []observability.Tag{
			observability.T("method", r.Method),
			observability.T("path", r.URL.Path),
		}
		metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
		metrics.Timing(observability.MetricHTTPRequestDuration, duration, tags...)
		if rec.status >= http.StatusInternalServerError {
			metrics.Counter(observability.MetricHTTPErrors, 1, tags...)
		}
	})
}
