package planner

import (
	"fmt"
	"strings"

	"github.com/day-s-ea/Calendar-Todo/internal/apperr"
	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/recurrence"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
)

// Change kinds passed to the ChangeListener.
const (
	ChangeEventCreated    = "event.created"
	ChangeEventUpdated    = "event.updated"
	ChangeEventRemoved    = "event.removed"
	ChangeTodoCreated     = "todo.created"
	ChangeTodoUpdated     = "todo.updated"
	ChangeTodoRemoved     = "todo.removed"
	ChangeCategoryUpdated = "category.updated"
	ChangeCategoryRemoved = "category.removed"
	ChangePeriodsUpdated  = "periods.updated"
	ChangeCleared         = "calendar.cleared"
)

// EventDraft carries the user-entered fields for a new event.
type EventDraft struct {
	Title        string
	Category     string
	StartTime    string
	EndTime      string
	DurationType string
	Recurrence   *models.Recurrence
}

// EventPatch holds optional replacement fields for a single event
// instance. Nil fields are left unchanged. Recurrence is deliberately
// not patchable: updates never re-run expansion.
type EventPatch struct {
	Title        *string
	Category     *string
	StartTime    *string
	EndTime      *string
	DurationType *string
}

var presetMinutes = map[string]int{
	models.Duration30Min: 30,
	models.Duration1H:    60,
	models.Duration2H:    120,
	models.Duration3H:    180,
}

// normalizeEvent trims and validates an event's title and times, and
// derives preset end times from the duration type.
func normalizeEvent(ev *models.Event) error {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return fmt.Errorf("%w: title must not be empty", apperr.ErrValidation)
	}
	if ev.DurationType == "" {
		ev.DurationType = models.DurationCustom
	}
	if !models.ValidDurationType(ev.DurationType) {
		return fmt.Errorf("%w: unknown duration type %q", apperr.ErrValidation, ev.DurationType)
	}

	switch ev.DurationType {
	case models.DurationAllDay:
		ev.StartTime, ev.EndTime = "00:00", "23:59"

	case models.DurationCustom:
		start, err := timeutil.DecimalHour(ev.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
		end, err := timeutil.DecimalHour(ev.EndTime)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
		if end <= start {
			return fmt.Errorf("%w: end time must be after start time", apperr.ErrValidation)
		}

	default:
		end, err := timeutil.AddMinutes(ev.StartTime, presetMinutes[ev.DurationType])
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
		ev.EndTime = end
	}
	return nil
}

func validateRecurrence(r *models.Recurrence) error {
	if r.IsNone() {
		return nil
	}
	switch r.Type {
	case models.RecurrenceDays:
		if r.Interval < 1 {
			return fmt.Errorf("%w: day interval must be positive", apperr.ErrValidation)
		}
	case models.RecurrenceWeeks:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("%w: weekday set must not be empty", apperr.ErrValidation)
		}
		for _, d := range r.Weekdays {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: weekday %d out of range", apperr.ErrValidation, d)
			}
		}
	case models.RecurrenceMonths:
		if r.Interval < 1 || r.Interval > 12 {
			return fmt.Errorf("%w: month interval must be in 1..12", apperr.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown recurrence type %q", apperr.ErrValidation, r.Type)
	}
	return nil
}

func validDate(date string) error {
	if _, err := timeutil.ParseISODate(date); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// AddEvent creates an event on a date. A recurring draft is expanded
// immediately: one sibling instance per generated date, each with its
// own id, all sharing one freshly minted recurrence group id. Returns
// the created instances in date order.
func (s *Store) AddEvent(date string, draft EventDraft) ([]models.Event, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	ev := models.Event{
		Title:        draft.Title,
		Category:     draft.Category,
		StartTime:    draft.StartTime,
		EndTime:      draft.EndTime,
		DurationType: draft.DurationType,
	}
	if err := normalizeEvent(&ev); err != nil {
		return nil, err
	}
	if err := validateRecurrence(draft.Recurrence); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if draft.Recurrence.IsNone() {
		ev.ID = s.newID()
		s.events[date] = append(s.events[date], ev)
		s.persistLocked()
		s.notify(ChangeEventCreated, date)
		return []models.Event{ev}, nil
	}

	dates, err := recurrence.Expand(date, draft.Recurrence, s.horizonDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	created := make([]models.Event, 0, len(dates))
	groupID := s.newID()
	for _, d := range dates {
		inst := ev
		inst.ID = s.newID()
		inst.RecurrenceID = groupID
		inst.Recurrence = draft.Recurrence.Clone()
		s.events[d] = append(s.events[d], inst)
		created = append(created, inst)
	}
	s.persistLocked()
	s.notify(ChangeEventCreated, date)
	return created, nil
}

// UpdateEvent replaces fields of a single event instance on one date.
// Sibling recurrence instances are not touched and expansion does not
// re-run.
func (s *Store) UpdateEvent(date, id string, patch EventPatch) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[date]
	idx := indexOfEvent(list, id)
	if idx < 0 {
		return models.Event{}, apperr.ErrNotFound
	}

	ev := list[idx]
	if patch.Title != nil {
		ev.Title = *patch.Title
	}
	if patch.Category != nil {
		ev.Category = *patch.Category
	}
	if patch.StartTime != nil {
		ev.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		ev.EndTime = *patch.EndTime
	}
	if patch.DurationType != nil {
		ev.DurationType = *patch.DurationType
	}
	if err := normalizeEvent(&ev); err != nil {
		return models.Event{}, err
	}

	list[idx] = ev
	s.persistLocked()
	s.notify(ChangeEventUpdated, date)
	return ev, nil
}

// RemoveEvent deletes an event. An instance that belongs to a
// recurrence group takes the whole group with it, across all dates.
// Date keys left empty are pruned.
func (s *Store) RemoveEvent(date, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.events[date]
	idx := indexOfEvent(list, id)
	if idx < 0 {
		return apperr.ErrNotFound
	}
	target := list[idx]

	if target.RecurrenceID != "" {
		for d, evs := range s.events {
			filtered := evs[:0]
			for _, e := range evs {
				if e.RecurrenceID != target.RecurrenceID {
					filtered = append(filtered, e)
				}
			}
			if len(filtered) == 0 {
				delete(s.events, d)
			} else {
				s.events[d] = filtered
			}
		}
	} else {
		filtered := list[:0]
		for _, e := range list {
			if e.ID != id {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			delete(s.events, date)
		} else {
			s.events[date] = filtered
		}
	}

	s.persistLocked()
	s.notify(ChangeEventRemoved, date)
	return nil
}

// AddTodo appends a to-do to a date. The text must be non-empty after
// trimming.
func (s *Store) AddTodo(date, text string) (models.Todo, error) {
	if err := validDate(date); err != nil {
		return models.Todo{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Todo{}, fmt.Errorf("%w: todo text must not be empty", apperr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todo := models.Todo{ID: s.newID(), Text: text}
	s.todos[date] = append(s.todos[date], todo)
	s.persistLocked()
	s.notify(ChangeTodoCreated, date)
	return todo, nil
}

// ToggleTodo flips a to-do's completed flag.
func (s *Store) ToggleTodo(date, id string) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.todos[date]
	for i := range list {
		if list[i].ID == id {
			list[i].Completed = !list[i].Completed
			s.persistLocked()
			s.notify(ChangeTodoUpdated, date)
			return list[i], nil
		}
	}
	return models.Todo{}, apperr.ErrNotFound
}

// RemoveTodo deletes a to-do, pruning the date key when it empties.
func (s *Store) RemoveTodo(date, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.todos[date]
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.ErrNotFound
	}
	list = append(list[:idx], list[idx+1:]...)
	if len(list) == 0 {
		delete(s.todos, date)
	} else {
		s.todos[date] = list
	}
	s.persistLocked()
	s.notify(ChangeTodoRemoved, date)
	return nil
}

// AddCategory inserts or silently overwrites a category entry. Id
// derivation and collision handling are the caller's concern.
func (s *Store) AddCategory(id, label, color string) error {
	id = strings.TrimSpace(id)
	label = strings.TrimSpace(label)
	if id == "" || label == "" {
		return fmt.Errorf("%w: category id and label must not be empty", apperr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[id] = models.Category{Label: label, Color: color}
	s.persistLocked()
	s.notify(ChangeCategoryUpdated, "")
	return nil
}

// RemoveCategory deletes a user-defined category. Default categories
// are refused with ErrProtectedCategory. A category still referenced by
// events is refused with ErrCategoryInUse unless force is set; forcing
// leaves the referencing events' category ids dangling, to be resolved
// at read time.
func (s *Store) RemoveCategory(id string, force bool) error {
	if models.IsDefaultCategory(id) {
		return apperr.ErrProtectedCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return apperr.ErrNotFound
	}
	if !force && s.categoryInUseLocked(id) {
		return apperr.ErrCategoryInUse
	}
	delete(s.categories, id)
	s.persistLocked()
	s.notify(ChangeCategoryRemoved, "")
	return nil
}

func (s *Store) categoryInUseLocked(id string) bool {
	for _, evs := range s.events {
		for _, e := range evs {
			if e.Category == id {
				return true
			}
		}
	}
	return false
}

// UpdateTimePeriods replaces the day segmentation wholesale. The three
// ranges must chain: morning.start < morning.end = day.start < day.end
// = evening.start < evening.end.
func (s *Store) UpdateTimePeriods(p models.TimePeriods) error {
	if err := validatePeriods(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.periods = p
	s.persistLocked()
	s.notify(ChangePeriodsUpdated, "")
	return nil
}

func validatePeriods(p models.TimePeriods) error {
	m, d, e := p.Morning.Range, p.Day.Range, p.Evening.Range
	switch {
	case !(m[0] < m[1]):
		return fmt.Errorf("%w: morning range is empty or inverted", apperr.ErrValidation)
	case m[1] != d[0]:
		return fmt.Errorf("%w: day must start where morning ends", apperr.ErrValidation)
	case !(d[0] < d[1]):
		return fmt.Errorf("%w: day range is empty or inverted", apperr.ErrValidation)
	case d[1] != e[0]:
		return fmt.Errorf("%w: evening must start where day ends", apperr.ErrValidation)
	case !(e[0] < e[1]):
		return fmt.Errorf("%w: evening range is empty or inverted", apperr.ErrValidation)
	}
	return nil
}

// ClearPastData drops every date key strictly before today from both
// the event and to-do maps. Running it twice with the same date is a
// no-op the second time.
func (s *Store) ClearPastData(today string) error {
	if err := validDate(today); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for date := range s.events {
		if date < today {
			delete(s.events, date)
		}
	}
	for date := range s.todos {
		if date < today {
			delete(s.todos, date)
		}
	}
	s.persistLocked()
	s.notify(ChangeCleared, today)
	return nil
}

func indexOfEvent(list []models.Event, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
