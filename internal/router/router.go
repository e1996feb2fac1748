package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"yatra-backend/internal/handlers"
	"yatra-backend/internal/middleware"
)

type Deps struct {
	KeySource  func() string
	MissingKey string

	BudgetHandler   *handlers.BudgetHandler
	ChatHandler     *handlers.ChatHandler
	LanguageHandler *handlers.ChatHandler
	SystemHandler   *handlers.SystemHandler

	// RateLimit guards the model-backed endpoints; nil disables it.
	RateLimit func(http.Handler) http.Handler

	FrontendURL string
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.FrontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// No /api path is served without a provider credential.
		r.Use(middleware.RequireAPIKey(d.KeySource, d.MissingKey))

		r.Get("/check-api-key", d.SystemHandler.CheckAPIKey)
		r.Get("/suggestions", d.SystemHandler.Suggestions)
		r.Get("/destinations", d.SystemHandler.Destinations)
		r.Get("/destinations/suggest", d.SystemHandler.SuggestDestinations)

		// ──── Model-backed Routes ────
		r.Group(func(r chi.Router) {
			if d.RateLimit != nil {
				r.Use(d.RateLimit)
			}
			r.Post("/budget", d.BudgetHandler.Estimate)
			r.Post("/chat", d.ChatHandler.Stream)
			r.Post("/language", d.LanguageHandler.Stream)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Not found"}`))
		})
	})

	return r
}
