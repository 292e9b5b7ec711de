package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Zerr0-C00L/Katch/internal/shield"
)

// SetupRoutes configures the pages, the JSON API and the auth endpoints.
func SetupRoutes(handler *Handler) http.Handler {
	r := mux.NewRouter()

	// Pages
	r.HandleFunc("/", handler.Home).Methods("GET")
	r.HandleFunc("/watch/{id}", handler.Watch).Methods("GET")
	r.HandleFunc("/anime/{id}", handler.AnimeRedirect).Methods("GET")
	r.HandleFunc("/out", shield.RedirectHandler).Methods("GET")
	r.HandleFunc("/manifest.json", handler.Manifest).Methods("GET")
	r.HandleFunc("/install/dismiss", handler.DismissInstall).Methods("POST")

	// Identity
	if handler.auth != nil {
		r.HandleFunc("/auth/login", handler.auth.HandleLogin).Methods("GET")
		r.HandleFunc("/auth/callback", handler.auth.HandleCallback).Methods("GET")
		r.HandleFunc("/auth/logout", handler.auth.HandleLogout).Methods("GET")
	}

	// API v1 routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	api.HandleFunc("/catalog", handler.GetCatalog).Methods("GET")
	api.HandleFunc("/search", handler.Search).Methods("GET")
	api.HandleFunc("/history", handler.ListHistory).Methods("GET")
	api.HandleFunc("/history", handler.SaveHistory).Methods("POST")
	api.HandleFunc("/watchlist", handler.ListWatchlist).Methods("GET")
	api.HandleFunc("/watchlist/toggle", handler.ToggleWatchlist).Methods("POST")
	api.HandleFunc("/watchlist/{id}", handler.WatchlistStatus).Methods("GET")

	if handler.metrics != nil {
		r.Handle("/metrics", handler.metrics.Handler()).Methods("GET")
	}

	r.Use(loggingMiddleware(handler.logger))
	r.Use(metricsMiddleware(handler.metrics))
	if handler.sessions != nil {
		r.Use(handler.sessions.Middleware)
	}
	r.Use(shield.Middleware(handler.policy))

	// Router middleware does not run for unmatched paths.
	var notFound http.Handler = shield.Middleware(handler.policy)(http.HandlerFunc(handler.NotFound))
	if handler.sessions != nil {
		notFound = handler.sessions.Middleware(notFound)
	}
	r.NotFoundHandler = loggingMiddleware(handler.logger)(notFound)

	return r
}
