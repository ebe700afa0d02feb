// Package metrics exposes Prometheus collectors for the web UI and for the
// REST calls it makes to the backend.
package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PageDuration tracks page request duration in seconds by method, path, status.
	PageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pybo_page_request_duration_seconds",
			Help:    "Page request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// PageTotal counts page requests by method, path, status.
	PageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pybo_page_requests_total",
			Help: "Total number of page requests",
		},
		[]string{"method", "path", "status"},
	)

	// BackendDuration tracks REST calls to the backend by method, path, status.
	BackendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pybo_backend_request_duration_seconds",
			Help:    "Backend REST call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// BackendTotal counts REST calls to the backend by method, path, status.
	// Transport failures are recorded with status "0".
	BackendTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pybo_backend_requests_total",
			Help: "Total number of backend REST calls",
		},
		[]string{"method", "path", "status"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(PageDuration, PageTotal, BackendDuration, BackendTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with
// {id}. E.g. /question/123 -> /question/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordPage records duration and count for one page request.
func RecordPage(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	PageDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	PageTotal.WithLabelValues(method, path, status).Inc()
}

// RecordBackend records duration and count for one REST call to the backend.
// statusCode 0 means the call failed before an HTTP response arrived.
func RecordBackend(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	BackendDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	BackendTotal.WithLabelValues(method, path, status).Inc()
}
