package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/day-s-ea/Calendar-Todo/internal/planner"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *planner.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Days and their entries.
	r.Get("/days", h.ListDays)
	r.Get("/days/{date}", h.GetDay)
	r.Post("/days/{date}/events", h.CreateEvent)
	r.Patch("/days/{date}/events/{id}", h.UpdateEvent)
	r.Delete("/days/{date}/events/{id}", h.DeleteEvent)
	r.Post("/days/{date}/todos", h.CreateTodo)
	r.Post("/days/{date}/todos/{id}/toggle", h.ToggleTodo)
	r.Delete("/days/{date}/todos/{id}", h.DeleteTodo)

	// Categories.
	r.Get("/categories", h.ListCategories)
	r.Put("/categories/{id}", h.UpsertCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)

	// Day segmentation.
	r.Get("/time-periods", h.GetTimePeriods)
	r.Put("/time-periods", h.UpdateTimePeriods)

	// Maintenance.
	r.Post("/maintenance/clear-past", h.ClearPast)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
