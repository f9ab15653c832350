package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Parse result labels.
const (
	ParseAccepted = "accepted"
	ParseRejected = "rejected"
	ParseIgnored  = "ignored"
)

// Metrics holds all Prometheus metrics for the handoff lifecycle.
type Metrics struct {
	// Parser metrics
	ParsesTotal *prometheus.CounterVec

	// Handshake metrics
	HandshakesTotal  *prometheus.CounterVec
	ReadyWaitSeconds prometheus.Histogram

	// Completion metrics
	CompletionsTotal *prometheus.CounterVec

	// Dispatch metrics
	DispatchFailures prometheus.Counter

	// Session metrics
	PendingSession prometheus.Gauge
	SessionsStale  prometheus.Counter
}

// New creates a metrics collector registered against the given registerer.
// Passing a fresh registry keeps parallel managers in tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ParsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_parses_total",
				Help: "Total number of inbound URL parse attempts",
			},
			[]string{"result"},
		),
		HandshakesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_handshakes_total",
				Help: "Total number of readiness handshake resolutions",
			},
			[]string{"outcome"},
		),
		ReadyWaitSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskgate_ready_wait_seconds",
				Help:    "Time between handoff arrival and readiness resolution",
				Buckets: []float64{.05, .1, .25, .5, 1, 1.5, 2, 3, 5},
			},
		),
		CompletionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_completions_total",
				Help: "Total number of completion reports by status",
			},
			[]string{"status"},
		),
		DispatchFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "taskgate_dispatch_failures_total",
				Help: "Total number of outbound URL dispatches the OS rejected",
			},
		),
		PendingSession: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskgate_pending_session",
				Help: "Whether a task session is currently pending (0 or 1)",
			},
		),
		SessionsStale: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "taskgate_sessions_stale_total",
				Help: "Total number of sessions discarded for staleness",
			},
		),
	}
}

// Default creates a metrics collector on the global registry.
func Default() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// RecordParse records an inbound parse attempt. All recorders are nil-safe
// so the SDK works without a collector wired in.
func (m *Metrics) RecordParse(result string) {
	if m == nil {
		return
	}
	m.ParsesTotal.WithLabelValues(result).Inc()
}

// RecordHandshake records a handshake resolution and the observed wait.
func (m *Metrics) RecordHandshake(outcome string, wait time.Duration) {
	if m == nil {
		return
	}
	m.HandshakesTotal.WithLabelValues(outcome).Inc()
	m.ReadyWaitSeconds.Observe(wait.Seconds())
}

// RecordCompletion records a completion report.
func (m *Metrics) RecordCompletion(status string) {
	if m == nil {
		return
	}
	m.CompletionsTotal.WithLabelValues(status).Inc()
}

// RecordDispatchFailure records a failed outbound URL dispatch.
func (m *Metrics) RecordDispatchFailure() {
	if m == nil {
		return
	}
	m.DispatchFailures.Inc()
}

// SetPendingSession reflects whether a session is currently held.
func (m *Metrics) SetPendingSession(pending bool) {
	if m == nil {
		return
	}
	if pending {
		m.PendingSession.Set(1)
	} else {
		m.PendingSession.Set(0)
	}
}

// RecordStaleSession records a session purged for staleness.
func (m *Metrics) RecordStaleSession() {
	if m == nil {
		return
	}
	m.SessionsStale.Inc()
}
