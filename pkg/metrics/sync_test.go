package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSyncMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)

	m.AddProcessed("categories", 5)
	m.AddErrors("categories", 1)
	m.ObserveDuration("categories", 2*time.Second)

	if got := testutil.ToFloat64(m.processed.WithLabelValues("categories")); got != 5 {
		t.Fatalf("expected 5 processed, got %v", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("categories")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}

func TestNilReceiversAreSafe(t *testing.T) {
	var s *SyncMetrics
	s.AddProcessed("x", 1)
	s.ObserveDuration("x", time.Second)

	var p *PaymentMetrics
	p.IncRedirect("success")
	p.IncInconsistency()

	empty := NewSyncMetrics(nil)
	empty.AddErrors("", 1)
}
