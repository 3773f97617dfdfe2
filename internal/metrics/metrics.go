package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the resolution pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Store round trip latencies by endpoint
	StoreLatency *prometheus.HistogramVec

	// Store failures by endpoint and failure kind
	StoreErrors *prometheus.CounterVec

	// Dispatch outcomes by intent and outcome
	DispatchOutcome *prometheus.CounterVec

	// Requests rejected by the rate limiter, by backend
	RateLimited *prometheus.CounterVec

	// Rate limiter backend failures (requests let through)
	RateLimitErrors prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
// Call it once per process.
func New() *Metrics {
	return &Metrics{
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verse_store_request_duration_seconds",
			Help:    "Duration of remote XML store requests by endpoint",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}), // endpoint: "query", "books", "stats", "ping"

		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verse_store_errors_total",
			Help: "Remote XML store failures by endpoint and kind",
		}, []string{"endpoint", "kind"}),

		DispatchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verse_dispatch_total",
			Help: "Dispatched requests by intent and outcome",
		}, []string{"intent", "outcome"}),

		RateLimited: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verse_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"backend"}), // backend: "memory", "redis"

		RateLimitErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verse_ratelimit_errors_total",
			Help: "Rate limiter backend errors; the request is allowed",
		}),
	}
}

// ObserveStoreLatency records the duration of one store request.
func (m *Metrics) ObserveStoreLatency(endpoint string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// IncrementStoreError records a failed store request.
func (m *Metrics) IncrementStoreError(endpoint, kind string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(endpoint, kind).Inc()
	}
}

// IncrementOutcome records a dispatch outcome.
func (m *Metrics) IncrementOutcome(intent, outcome string) {
	if m != nil {
		m.DispatchOutcome.WithLabelValues(intent, outcome).Inc()
	}
}

// IncrementRateLimited records a rejected request.
func (m *Metrics) IncrementRateLimited(backend string) {
	if m != nil {
		m.RateLimited.WithLabelValues(backend).Inc()
	}
}

// IncrementRateLimitError records a limiter backend failure.
func (m *Metrics) IncrementRateLimitError() {
	if m != nil {
		m.RateLimitErrors.Inc()
	}
}
