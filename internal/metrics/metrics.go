package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RemoteRequestsTotal counts calls to the remote service by endpoint and result.
	RemoteRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flight_assistant",
		Name:      "remote_requests_total",
		Help:      "Calls to the remote prediction service, labeled by endpoint and result (ok, status, transport, decode).",
	}, []string{"endpoint", "result"})

	RemoteRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flight_assistant",
		Name:      "remote_request_duration_seconds",
		Help:      "Round trip time of remote service calls.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"endpoint"})

	// SessionsActive is the number of sessions held in memory.
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flight_assistant",
		Name:      "sessions_active",
		Help:      "Interactive sessions currently held in memory.",
	})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flight_assistant",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-session rate limiter.",
	})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RemoteRequestsTotal,
			RemoteRequestDurationSeconds,
			SessionsActive,
			RateLimitedTotal,
		)
	})
}
