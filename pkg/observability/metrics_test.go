package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	assert.NotPanics(t, func() {
		m.Counter(MetricPurchasesCommitted, 1)
		m.Gauge(MetricOutboxPending, 1)
		m.Timing(MetricPurchaseDuration, time.Second)
	})
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counters by tag", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricPurchasesAborted, 1, T("reason", "insufficient_credit"))
		m.Counter(MetricPurchasesAborted, 1, T("reason", "insufficient_credit"))
		m.Counter(MetricPurchasesAborted, 1, T("reason", "not_enough_stock"))

		assert.Equal(t, int64(2), m.GetCounter(MetricPurchasesAborted, T("reason", "insufficient_credit")))
		assert.Equal(t, int64(1), m.GetCounter(MetricPurchasesAborted, T("reason", "not_enough_stock")))
		assert.Zero(t, m.GetCounter(MetricPurchasesAborted))
	})

	t.Run("gauge keeps last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge(MetricOutboxPending, 10)
		m.Gauge(MetricOutboxPending, 3)

		assert.Equal(t, 3.0, m.GetGauge(MetricOutboxPending))
	})

	t.Run("snapshot summarizes timings", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing(MetricPurchaseDuration, 10*time.Millisecond)
		m.Timing(MetricPurchaseDuration, 30*time.Millisecond)
		m.Counter(MetricPurchasesCommitted, 2)

		s := m.Snapshot()

		assert.Equal(t, int64(2), s.Counters[MetricPurchasesCommitted])
		summary := s.Timings[MetricPurchaseDuration]
		assert.Equal(t, 2, summary.Count)
		assert.InDelta(t, 20.0, summary.AvgMs, 0.001)
		assert.InDelta(t, 30.0, summary.MaxMs, 0.001)
	})

	t.Run("reset", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("x", 1)

		m.Reset()

		assert.Zero(t, m.GetCounter("x"))
	})
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "name", formatKey("name", nil))
	assert.Equal(t, "name:a=1:b=2", formatKey("name", []Tag{T("b", "2"), T("a", "1")}))
}
