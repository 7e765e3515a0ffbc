package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "messaging_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "endpoint", "status"},
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, endpoint, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(seconds)
}
