package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DataOpMetrics records durations and outcomes for store operations,
// including lock-contention retries handled by the retry wrapper.
type DataOpMetrics struct {
	duration    *prometheus.HistogramVec
	failure     *prometheus.CounterVec
	lockRetries *prometheus.CounterVec
}

// NewDataOpMetrics registers the data operation metrics on the provided
// registerer.
func NewDataOpMetrics(reg prometheus.Registerer) *DataOpMetrics {
	if reg == nil {
		return &DataOpMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_op_duration_seconds",
		Help:    "Duration of store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_op_failure",
		Help: "Failed store operations.",
	}, []string{"op"})
	lockRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_op_lock_retries",
		Help: "Retries caused by store lock contention.",
	}, []string{"op"})
	reg.MustRegister(duration, failure, lockRetries)
	return &DataOpMetrics{
		duration:    duration,
		failure:     failure,
		lockRetries: lockRetries,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *DataOpMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncFailure increments the failure counter for the named operation.
func (m *DataOpMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncLockRetry increments the lock retry counter for the named operation.
func (m *DataOpMetrics) IncLockRetry(op string) {
	if m == nil || m.lockRetries == nil {
		return
	}
	m.lockRetries.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(op string) string {
	op = strings.TrimSpace(strings.ToLower(op))
	if op == "" {
		return "unknown"
	}
	return strings.ReplaceAll(op, " ", "_")
}
