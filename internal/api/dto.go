package api

import (
	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/planner"
	"github.com/day-s-ea/Calendar-Todo/internal/recurrence"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
)

// CreateEventRequest is the request body for adding an event to a day.
type CreateEventRequest struct {
	Title        string             `json:"title" example:"Team standup" validate:"required"`
	Category     string             `json:"category" example:"work"`
	StartTime    string             `json:"startTime" example:"09:00" validate:"required"`
	EndTime      string             `json:"endTime" example:"09:30"`
	DurationType string             `json:"durationType" example:"30min"`
	Recurrence   *models.Recurrence `json:"recurrence,omitempty"`
}

// UpdateEventRequest is the request body for patching a single event
// instance. Absent fields are left unchanged.
type UpdateEventRequest struct {
	Title        *string `json:"title,omitempty"`
	Category     *string `json:"category,omitempty"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	DurationType *string `json:"durationType,omitempty"`
}

// CreateTodoRequest is the request body for adding a to-do to a day.
type CreateTodoRequest struct {
	Text string `json:"text" example:"Buy groceries" validate:"required"`
}

// UpsertCategoryRequest is the request body for creating or replacing a
// category.
type UpsertCategoryRequest struct {
	Label string `json:"label" example:"Projects" validate:"required"`
	Color string `json:"color" example:"bg-purple-500" validate:"required"`
}

// EventView is an event enriched for display: resolved category,
// day-segment classification, and human-readable duration and
// recurrence text.
type EventView struct {
	ID             string             `json:"id" validate:"required"`
	Title          string             `json:"title" validate:"required"`
	Category       string             `json:"category"`
	CategoryLabel  string             `json:"categoryLabel"`
	CategoryColor  string             `json:"categoryColor"`
	StartTime      string             `json:"startTime"`
	EndTime        string             `json:"endTime"`
	DurationType   string             `json:"durationType"`
	Section        string             `json:"section"`
	Duration       string             `json:"duration"`
	Recurrence     *models.Recurrence `json:"recurrence,omitempty"`
	RecurrenceID   string             `json:"recurrenceId,omitempty"`
	RecurrenceText string             `json:"recurrenceText,omitempty"`
}

// DayView is the full response for a single day.
type DayView struct {
	Date   string        `json:"date" validate:"required"`
	Events []EventView   `json:"events" validate:"required"`
	Todos  []models.Todo `json:"todos" validate:"required"`
}

// DaysResponse wraps per-day entry counts for a date range.
type DaysResponse struct {
	Days []planner.DaySummary `json:"days" validate:"required"`
}

// eventView builds the display form of an event against the current
// category set and day segmentation.
func eventView(store *planner.Store, ev models.Event) EventView {
	cat := store.ResolveCategory(ev.Category)

	section, err := timeutil.ClassifySegment(ev.StartTime, store.TimePeriods())
	if err != nil {
		section = models.SegmentMorning
	}
	duration, err := timeutil.FormatDuration(ev.StartTime, ev.EndTime)
	if err != nil {
		duration = ""
	}

	return EventView{
		ID:             ev.ID,
		Title:          ev.Title,
		Category:       ev.Category,
		CategoryLabel:  cat.Label,
		CategoryColor:  cat.Color,
		StartTime:      ev.StartTime,
		EndTime:        ev.EndTime,
		DurationType:   ev.DurationType,
		Section:        section,
		Duration:       duration,
		Recurrence:     ev.Recurrence,
		RecurrenceID:   ev.RecurrenceID,
		RecurrenceText: recurrence.Describe(ev.Recurrence),
	}
}

func eventViews(store *planner.Store, evs []models.Event) []EventView {
	out := make([]EventView, 0, len(evs))
	for _, ev := range evs {
		out = append(out, eventView(store, ev))
	}
	return out
}
