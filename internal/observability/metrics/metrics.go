package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StatusChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lock_status_checks_total",
			Help: "Public lock status checks by outcome.",
		},
		[]string{"outcome"},
	)

	KeyMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lock_key_mutations_total",
			Help: "License key mutations by action.",
		},
		[]string{"action"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		StatusChecksTotal,
		KeyMutationsTotal,
	)
}
