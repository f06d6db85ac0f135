package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the engine's prometheus metrics.
type Collector struct {
	HTTPRequests    *prometheus.CounterVec
	IntakeSteps     *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	SyncFailures    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitflow_http_requests_total",
			Help: "HTTP requests by method, path and status class.",
		}, []string{"method", "path", "status"}),
		IntakeSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitflow_intake_steps_total",
			Help: "Intake step submissions by step and result.",
		}, []string{"step", "result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitflow_status_transitions_total",
			Help: "Successful status transitions by target status.",
		}, []string{"to"}),
		SyncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitflow_ats_sync_failures_total",
			Help: "Failed ATS calls by operation.",
		}, []string{"op"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recruitflow_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(c.HTTPRequests, c.IntakeSteps, c.Transitions, c.SyncFailures, c.RequestDuration)
	return c
}
