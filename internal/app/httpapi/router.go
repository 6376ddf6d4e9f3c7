package httpapi

import (
	"fmt"
	"net/http"

	app "github.com/neetprep/service_layer/internal/app"
	"github.com/neetprep/service_layer/internal/app/metrics"
	"github.com/neetprep/service_layer/internal/config"
	"github.com/neetprep/service_layer/internal/middleware"
	"github.com/neetprep/service_layer/pkg/logger"
)

// NewRouter wraps the API handler with tracing, metrics, CORS and rate
// limiting. Limiter cleanup is scheduled on the application's cron service.
func NewRouter(application *app.Application, settings config.Settings, log *logger.Logger) (http.Handler, error) {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	router := NewHandler(application, log)

	limiter := middleware.NewRateLimiter(
		settings.RateLimit.RequestsPerSecond,
		settings.RateLimit.Burst,
		settings.RateLimit.IdleTTL,
		log.Named("ratelimit"),
	)
	if application.Cron != nil && settings.RateLimit.CleanupSchedule != "" {
		if err := application.Cron.Schedule(settings.RateLimit.CleanupSchedule, "ratelimit-cleanup", limiter.Cleanup); err != nil {
			return nil, fmt.Errorf("schedule rate limiter cleanup: %w", err)
		}
	}

	tracing := middleware.NewTracingMiddleware(log.Named("http"))
	cors := middleware.NewCORSMiddleware(settings.CORS.AllowedOrigins)

	// Wrapped around the router rather than registered with Use so that
	// preflight and unmatched requests pass through them too.
	var h http.Handler = router
	h = limiter.Handler(h)
	h = cors.Handler(h)
	h = metrics.InstrumentHandler(h)
	h = tracing.Handler(h)
	return h, nil
}
