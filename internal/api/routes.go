package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/bazi-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	POST   /api/v1/charts
//	GET    /api/v1/solar-terms/{year}?month=
//	GET    /api/v1/lunar/{date}
//	GET    /api/v1/profiles?category=&q=&limit=&offset=   (API key)
//	POST   /api/v1/profiles                               (API key)
//	GET    /api/v1/profiles/counts                        (API key)
//	GET    /api/v1/profiles/last-selected                 (API key)
//	GET    /api/v1/profiles/{id}                          (API key)
//	PUT    /api/v1/profiles/{id}                          (API key)
//	DELETE /api/v1/profiles/{id}                          (API key)
//	POST   /api/v1/profiles/{id}/select                   (API key)
//	GET    /api/v1/profiles/{id}/chart                    (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggingMiddleware(log),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/charts", handlers.CalculateChart)
		r.Get("/solar-terms/{year}", handlers.GetSolarTerms)
		r.Get("/lunar/{date}", handlers.GetLunarDate)

		// ======================================================================
		// Profile routes (authenticated)
		// ======================================================================
		r.Route("/profiles", func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, log))

			r.Get("/", handlers.ListProfiles)
			r.Post("/", handlers.CreateProfile)
			r.Get("/counts", handlers.CountProfiles)
			r.Get("/last-selected", handlers.GetLastSelectedProfile)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetProfile)
				r.Put("/", handlers.UpdateProfile)
				r.Delete("/", handlers.DeleteProfile)
				r.Post("/select", handlers.SelectProfile)
				r.Get("/chart", handlers.GetProfileChart)
			})
		})
	})

	return r
}
