package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/stavnycha/whereami/docs" // Swagger docs
	"github.com/stavnycha/whereami/internal/handler"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
	custommiddleware "github.com/stavnycha/whereami/internal/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SetupRouter creates and configures the Chi router with all middleware and routes
//
// Parameters:
//   - whereAmIHandler: the /whereami handler
//   - m: metrics collector (optional)
//   - gatherer: source for /metrics, prometheus.DefaultGatherer when nil
//   - log: structured logger
//
// The caller's address is taken from the connection as is: no RealIP or
// X-Forwarded-For handling is installed.
func SetupRouter(whereAmIHandler *handler.WhereAmIHandler, m *metrics.Metrics, gatherer prometheus.Gatherer, log *logger.Logger) chi.Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// Order matters! RequestID first so every later log line carries it
	r.Use(middleware.RequestID)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.MetricsMiddleware(m))

	r.Get("/whereami", whereAmIHandler.WhereAmI)

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", handler.Health)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger UI, at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
