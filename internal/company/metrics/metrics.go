package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application lifecycle.
type Metrics struct {
	ApplicationsSubmitted *prometheus.CounterVec
	ApplicationsRejected  *prometheus.CounterVec
	ApplicationsApproved  *prometheus.CounterVec
	ValidationFailures    *prometheus.CounterVec
	SubmitDuration        prometheus.Histogram
}

// New creates and registers all application metrics on the default
// registerer.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_applications_submitted_total",
			Help: "Applications that passed validation and were accepted for review",
		}, []string{"kind"}),
		ApplicationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_applications_rejected_total",
			Help: "Applications rejected at submission time",
		}, []string{"kind"}),
		ApplicationsApproved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_applications_approved_total",
			Help: "Applications approved and applied to company state",
		}, []string{"kind"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_validation_failures_total",
			Help: "Individual field violations by code",
		}, []string{"code"}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "registrar_submit_duration_seconds",
			Help:    "Latency of application submission including validation and diffing",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementSubmitted(kind string) {
	m.ApplicationsSubmitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementRejected(kind string) {
	m.ApplicationsRejected.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementApproved(kind string) {
	m.ApplicationsApproved.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementValidationFailure(code string) {
	m.ValidationFailures.WithLabelValues(code).Inc()
}
