package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation and records it as a duration metric plus an
// invocation counter, with an error counter when the operation failed.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

// StartTimer begins timing the named operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// WithLogger makes the timer log the outcome when it stops.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics makes the timer record to the given collector when it stops.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags adds metric tags beyond the operation name.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop finishes the timer and records the outcome. A nil err counts as
// success.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		if err != nil {
			t.logger.ErrorContext(ctx, "operation failed",
				OperationKey, t.operation,
				DurationKey, duration.Milliseconds(),
				ErrorKey, err.Error(),
			)
		} else {
			t.logger.InfoContext(ctx, "operation completed",
				OperationKey, t.operation,
				DurationKey, duration.Milliseconds(),
			)
		}
	}

	if t.metrics != nil {
		tags := append(t.tags, T("operation", t.operation))
		t.metrics.Timing(MetricOperationDuration, duration, tags...)
		t.metrics.Counter(MetricOperationTotal, 1, tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}

	return duration
}

// TimeOperation runs fn under a timer and passes its error through.
func TimeOperation(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func(ctx context.Context) error) error {
	timer := StartTimer(operation).WithLogger(logger).WithMetrics(metrics)
	err := fn(ctx)
	timer.Stop(ctx, err)
	return err
}
