package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/hijri-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
//	GET  /health
//	GET  /metrics
//	GET  /api/v1/hijri/today
//	GET  /api/v1/hijri/from-gregorian/{date}
//	GET  /api/v1/hijri/years/{year}/months
//	GET  /api/v1/gregorian/from-hijri/{year}/{month}/{day}
//	GET  /api/v1/julian-day
//	GET  /api/v1/julian-day/{jdn}
//	GET  /api/v1/lunations/{n}
//	GET  /api/v1/calendar/days-in-month/{year}/{month}
//	GET  /api/v1/almanac/stats
//	POST /api/v1/admin/almanac/refresh   (X-API-Key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	baseMiddleware := ChainMiddleware(
		RequestIDMiddleware(logger),
		RecoveryMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(),
	)
	r.Use(baseMiddleware)
	if handlers.metrics != nil {
		r.Use(handlers.metrics.Middleware())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)
	if handlers.metrics != nil {
		r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())
	}

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))

		r.Get("/hijri/today", handlers.GetHijriToday)
		r.Get("/hijri/from-gregorian/{date}", handlers.GetHijriFromGregorian)
		r.Get("/hijri/years/{year}/months", handlers.GetHijriYearMonths)
		r.Get("/gregorian/from-hijri/{year}/{month}/{day}", handlers.GetGregorianFromHijri)
		r.Get("/julian-day", handlers.GetJulianDay)
		r.Get("/julian-day/{jdn}", handlers.GetFromJulianDay)
		r.Get("/lunations/{n}", handlers.GetLunation)
		r.Get("/calendar/days-in-month/{year}/{month}", handlers.GetDaysInMonth)
		r.Get("/almanac/stats", handlers.GetAlmanacStats)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AuthMiddleware(cfg))
			r.Post("/almanac/refresh", handlers.RefreshAlmanac)
		})
	})

	return r
}
