package httpmetrics

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lifepost/lifepost/internal/observability/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := r.Method
		path := NormalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(method, path).Inc()
		metrics.HTTPRequestsInFlight.Inc()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequestsInFlight.Dec()

		statusClass := fmt.Sprintf("%dxx", rec.status/100)
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path, statusClass).Observe(time.Since(start).Seconds())
	})
}

// NormalizePath collapses per-resource path segments so that post ids do not
// explode metric cardinality.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/api/posts/") && path != "/api/posts/" {
		return "/api/posts/{id}"
	}
	if strings.HasPrefix(path, "/uploads/") {
		return "/uploads/{file}"
	}
	return path
}
