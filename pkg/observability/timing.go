package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation and reports it to a logger and a metrics sink.
type Timer struct {
	name    string
	start   time.Time
	logger  *slog.Logger
	metrics Metrics
	tags    []Tag
}

// StartTimer starts timing the named metric.
func StartTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// WithLogger logs completion or failure when the timer stops.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics records the duration as a Timing.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags labels the recorded timing.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records the elapsed time. A non-nil err is logged at error level.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	elapsed := time.Since(t.start)

	if t.metrics != nil {
		t.metrics.Timing(t.name, elapsed, t.tags...)
	}
	if t.logger != nil {
		if err != nil {
			t.logger.ErrorContext(ctx, "operation failed", DurationKey, elapsed.Milliseconds(), ErrorKey, err.Error())
		} else {
			t.logger.DebugContext(ctx, "operation completed", DurationKey, elapsed.Milliseconds())
		}
	}
	return elapsed
}
