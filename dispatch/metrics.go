package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the dispatch counters exported on /metrics
type Metrics struct {
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	timeouts    prometheus.Counter
	opened      *prometheus.CounterVec
	response    prometheus.Histogram
	pending     prometheus.Gauge
}

// NewMetrics creates the dispatch metrics on reg. A nil reg leaves them unregistered,
// which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_phase_transitions_total",
				Help: "Mission phase transitions applied, by target phase",
			},
			[]string{"phase"},
		),
		rejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_rejected_operations_total",
				Help: "Dispatch operations rejected, by operation and reason",
			},
			[]string{"operation", "reason"},
		),
		timeouts: f.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_acceptance_timeouts_total",
				Help: "Dispatches detached because the unit did not accept in time",
			},
		),
		opened: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_incidents_opened_total",
				Help: "Incidents opened, by priority",
			},
			[]string{"priority"},
		),
		response: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dispatch_response_minutes",
				Help:    "Minutes from dispatch to arrival at the patient",
				Buckets: []float64{2, 4, 6, 8, 10, 15, 20, 30, 45, 60},
			},
		),
		pending: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "dispatch_pending_acceptances",
				Help: "Acceptance countdowns currently armed",
			},
		),
	}
}
