package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stavnycha/whereami/internal/metrics"
)

// unmatchedRoute labels requests that matched no route
const unmatchedRoute = "unmatched"

// MetricsMiddleware records HTTP metrics for each request
// Endpoints are labelled with the chi route pattern so that paths such as
// /swagger/* stay a single series
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			endpoint := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			statusLabel := strconv.Itoa(status)

			if r.ContentLength > 0 {
				m.HTTPRequestSize.WithLabelValues(r.Method, endpoint).Observe(float64(r.ContentLength))
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, statusLabel).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, endpoint, statusLabel).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(r.Method, endpoint, statusLabel).Observe(float64(ww.BytesWritten()))
		})
	}
}

// routePattern returns the matched chi pattern, read after routing has happened
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
