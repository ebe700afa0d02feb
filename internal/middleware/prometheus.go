package middleware

import (
	"net/http"
	"time"

	"github.com/pybo-board/pybo-client/internal/metrics"
)

// Metrics records duration and count for each page request. The /metrics
// endpoint itself is not recorded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrap, r)
		if r.URL.Path == "/metrics" {
			return
		}
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		metrics.RecordPage(r.Method, path, wrap.status, time.Since(start).Seconds())
	})
}
