package metrics

import "github.com/prometheus/client_golang/prometheus"

// PaymentMetrics records payment redirect outcomes, including the
// operator-critical inconsistency counter (remote session opened but local
// write-back failed).
type PaymentMetrics struct {
	redirects       *prometheus.CounterVec
	inconsistencies prometheus.Counter
}

// NewPaymentMetrics registers payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	redirects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_redirects_total",
		Help: "Payment redirect attempts by outcome.",
	}, []string{"outcome"})
	inconsistencies := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_persistence_inconsistencies_total",
		Help: "Remote payment sessions whose id could not be written back locally.",
	})
	reg.MustRegister(redirects, inconsistencies)
	return &PaymentMetrics{
		redirects:       redirects,
		inconsistencies: inconsistencies,
	}
}

// IncRedirect counts a redirect attempt outcome ("success", "failure").
func (p *PaymentMetrics) IncRedirect(outcome string) {
	if p == nil || p.redirects == nil {
		return
	}
	p.redirects.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncInconsistency counts a dangling remote payment session.
func (p *PaymentMetrics) IncInconsistency() {
	if p == nil || p.inconsistencies == nil {
		return
	}
	p.inconsistencies.Inc()
}
