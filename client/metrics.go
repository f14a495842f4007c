package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeEnd   = "end"
	outcomeError = "error"
)

// metrics records call outcomes on a Prometheus registerer. A nil
// *metrics is valid and records nothing.
type metrics struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	callsInFlight *prometheus.GaugeVec
	responseBytes *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		callsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpapi_calls_total",
				Help: "Total number of calls by terminal event",
			},
			[]string{"method", "outcome"},
		),
		callDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpapi_call_duration_seconds",
				Help:    "Duration of calls from request to terminal event",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "outcome"},
		),
		callsInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "httpapi_calls_in_flight",
				Help: "Number of calls that have not reached a terminal event",
			},
			[]string{"method"},
		),
		responseBytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpapi_response_bytes_total",
				Help: "Response body bytes received before decoding",
			},
			[]string{"method"},
		),
	}
}

func (m *metrics) start(method Method) {
	if m == nil {
		return
	}
	m.callsInFlight.WithLabelValues(method.String()).Inc()
}

func (m *metrics) chunk(method Method, n int) {
	if m == nil {
		return
	}
	m.responseBytes.WithLabelValues(method.String()).Add(float64(n))
}

func (m *metrics) finish(method Method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.callsInFlight.WithLabelValues(method.String()).Dec()
	m.callsTotal.WithLabelValues(method.String(), outcome).Inc()
	m.callDuration.WithLabelValues(method.String(), outcome).Observe(elapsed.Seconds())
}
