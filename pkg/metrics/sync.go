package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records reconciliation run outcomes.
type SyncMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

// NewSyncMetrics registers the reconciliation metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_run_duration_seconds",
		Help:    "Duration of reconciliation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_processed_total",
		Help: "Records applied to local storage by reconciliation runs.",
	}, []string{"entity"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_record_errors_total",
		Help: "Records that failed during reconciliation runs.",
	}, []string{"entity"})
	reg.MustRegister(duration, processed, errors)
	return &SyncMetrics{
		duration:  duration,
		processed: processed,
		errors:    errors,
	}
}

// ObserveDuration records the duration for the named entity run.
func (s *SyncMetrics) ObserveDuration(entity string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(entity)).Observe(duration.Seconds())
}

// AddProcessed counts successfully applied records.
func (s *SyncMetrics) AddProcessed(entity string, n int) {
	if s == nil || s.processed == nil {
		return
	}
	s.processed.WithLabelValues(normalizeLabel(entity)).Add(float64(n))
}

// AddErrors counts failed records.
func (s *SyncMetrics) AddErrors(entity string, n int) {
	if s == nil || s.errors == nil {
		return
	}
	s.errors.WithLabelValues(normalizeLabel(entity)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
