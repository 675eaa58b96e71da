package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/day-s-ea/Calendar-Todo/internal/apperr"
	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/planner"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
)

// Handler holds API route handlers.
type Handler struct {
	store *planner.Store
}

// NewHandler creates a new Handler.
func NewHandler(store *planner.Store) *Handler {
	return &Handler{store: store}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrProtectedCategory):
		writeJSON(w, http.StatusForbidden, errorBody("default categories cannot be removed"))
	case errors.Is(err, apperr.ErrCategoryInUse):
		writeJSON(w, http.StatusConflict, errorBody("category is in use"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListDays handles GET /api/days.
//
//	@Summary		Per-day entry counts for a date range
//	@Tags			days
//	@Produce		json
//	@Param			from	query		string	true	"Range start (YYYY-MM-DD)"
//	@Param			to		query		string	true	"Range end (YYYY-MM-DD)"
//	@Success		200		{object}	DaysResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days [get]
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if _, err := timeutil.ParseISODate(from); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'from' must be YYYY-MM-DD"))
		return
	}
	if _, err := timeutil.ParseISODate(to); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'to' must be YYYY-MM-DD"))
		return
	}
	writeJSON(w, http.StatusOK, DaysResponse{Days: h.store.Summaries(from, to)})
}

// GetDay handles GET /api/days/{date}.
//
//	@Summary		Events and to-dos for one day
//	@Tags			days
//	@Produce		json
//	@Param			date	path		string	true	"Day (YYYY-MM-DD)"
//	@Success		200		{object}	DayView
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := timeutil.ParseISODate(date); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
		return
	}
	todos := h.store.TodosFor(date)
	if todos == nil {
		todos = []models.Todo{}
	}
	writeJSON(w, http.StatusOK, DayView{
		Date:   date,
		Events: eventViews(h.store, h.store.EventsFor(date)),
		Todos:  todos,
	})
}

// CreateEvent handles POST /api/days/{date}/events.
//
//	@Summary		Add an event, expanding its recurrence rule if present
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			date	path		string				true	"Day (YYYY-MM-DD)"
//	@Param			body	body		CreateEventRequest	true	"Event to create"
//	@Success		201		{array}		EventView
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/events [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	created, err := h.store.AddEvent(chi.URLParam(r, "date"), planner.EventDraft{
		Title:        req.Title,
		Category:     req.Category,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		DurationType: req.DurationType,
		Recurrence:   req.Recurrence,
	})
	if err != nil {
		writeError(w, "create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, eventViews(h.store, created))
}

// UpdateEvent handles PATCH /api/days/{date}/events/{id}.
//
//	@Summary		Patch a single event instance
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			date	path		string				true	"Day (YYYY-MM-DD)"
//	@Param			id		path		string				true	"Event id"
//	@Param			body	body		UpdateEventRequest	true	"Fields to replace"
//	@Success		200		{object}	EventView
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/events/{id} [patch]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	updated, err := h.store.UpdateEvent(chi.URLParam(r, "date"), chi.URLParam(r, "id"), planner.EventPatch{
		Title:        req.Title,
		Category:     req.Category,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		DurationType: req.DurationType,
	})
	if err != nil {
		writeError(w, "update event", err)
		return
	}
	writeJSON(w, http.StatusOK, eventView(h.store, updated))
}

// DeleteEvent handles DELETE /api/days/{date}/events/{id}.
//
//	@Summary		Remove an event; recurring instances remove their whole group
//	@Tags			events
//	@Param			date	path	string	true	"Day (YYYY-MM-DD)"
//	@Param			id		path	string	true	"Event id"
//	@Success		204		"Event removed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/events/{id} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveEvent(chi.URLParam(r, "date"), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateTodo handles POST /api/days/{date}/todos.
//
//	@Summary		Add a to-do to a day
//	@Tags			todos
//	@Accept			json
//	@Produce		json
//	@Param			date	path		string				true	"Day (YYYY-MM-DD)"
//	@Param			body	body		CreateTodoRequest	true	"To-do to create"
//	@Success		201		{object}	models.Todo
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/todos [post]
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	todo, err := h.store.AddTodo(chi.URLParam(r, "date"), req.Text)
	if err != nil {
		writeError(w, "create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// ToggleTodo handles POST /api/days/{date}/todos/{id}/toggle.
//
//	@Summary		Flip a to-do's completion state
//	@Tags			todos
//	@Produce		json
//	@Param			date	path		string	true	"Day (YYYY-MM-DD)"
//	@Param			id		path		string	true	"To-do id"
//	@Success		200		{object}	models.Todo
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/todos/{id}/toggle [post]
func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.store.ToggleTodo(chi.URLParam(r, "date"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle todo", err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/days/{date}/todos/{id}.
//
//	@Summary		Remove a to-do
//	@Tags			todos
//	@Param			date	path	string	true	"Day (YYYY-MM-DD)"
//	@Param			id		path	string	true	"To-do id"
//	@Success		204		"To-do removed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/todos/{id} [delete]
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveTodo(chi.URLParam(r, "date"), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories.
//
//	@Summary		List all categories
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	map[string]models.Category
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Categories())
}

// UpsertCategory handles PUT /api/categories/{id}.
//
//	@Summary		Create or replace a category
//	@Tags			categories
//	@Accept			json
//	@Param			id		path	string					true	"Category id"
//	@Param			body	body	UpsertCategoryRequest	true	"Label and color"
//	@Success		204		"Category stored"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [put]
func (h *Handler) UpsertCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpsertCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.store.AddCategory(chi.URLParam(r, "id"), req.Label, req.Color); err != nil {
		writeError(w, "upsert category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory handles DELETE /api/categories/{id}.
//
//	@Summary		Remove a user-defined category
//	@Tags			categories
//	@Param			id		path	string	true	"Category id"
//	@Param			force	query	bool	false	"Remove even when events still reference the category"
//	@Success		204		"Category removed"
//	@Failure		403		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	if err := h.store.RemoveCategory(chi.URLParam(r, "id"), force); err != nil {
		writeError(w, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTimePeriods handles GET /api/time-periods.
//
//	@Summary		Current day segmentation
//	@Tags			time-periods
//	@Produce		json
//	@Success		200	{object}	models.TimePeriods
//	@Security		BearerAuth
//	@Router			/time-periods [get]
func (h *Handler) GetTimePeriods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.TimePeriods())
}

// UpdateTimePeriods handles PUT /api/time-periods.
//
//	@Summary		Replace the day segmentation
//	@Tags			time-periods
//	@Accept			json
//	@Param			body	body	models.TimePeriods	true	"Contiguous morning, day, and evening ranges"
//	@Success		204		"Segmentation stored"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/time-periods [put]
func (h *Handler) UpdateTimePeriods(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req models.TimePeriods
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.store.UpdateTimePeriods(req); err != nil {
		writeError(w, "update time periods", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearPast handles POST /api/maintenance/clear-past.
//
//	@Summary		Drop all events and to-dos dated before today
//	@Tags			maintenance
//	@Success		204	"Past data cleared"
//	@Security		BearerAuth
//	@Router			/maintenance/clear-past [post]
func (h *Handler) ClearPast(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearPastData(timeutil.ToISODate(time.Now())); err != nil {
		writeError(w, "clear past", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
