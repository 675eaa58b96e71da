// Package planner implements the calendar store: per-date events and
// to-dos, user categories, and the configurable day segmentation,
// persisted through a storage provider as four independent records.
package planner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/day-s-ea/Calendar-Todo/internal/checksum"
	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/recurrence"
	"github.com/day-s-ea/Calendar-Todo/internal/storage"
)

// ChangeListener is invoked after every successful mutation with the
// kind of change and the date it anchors to (empty for global changes).
// The listener must not call back into the store.
type ChangeListener func(kind, date string)

// Store owns the in-memory calendar state. All operations serialize
// through one mutex; the HTTP and MCP surfaces call in concurrently.
// Every mutation persists the full aggregate through the provider as a
// best-effort side effect: a failed write is logged and the in-memory
// state stands.
type Store struct {
	mu          sync.Mutex
	provider    storage.Provider
	logger      *slog.Logger
	horizonDays int
	newID       func() string
	onChange    ChangeListener

	events     map[string][]models.Event
	todos      map[string][]models.Todo
	categories map[string]models.Category
	periods    models.TimePeriods

	// written tracks the checksum of each record's last own write or
	// load, so Reload can tell external edits from our own.
	written map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithHorizon sets how many days forward recurring events expand.
func WithHorizon(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.horizonDays = days
		}
	}
}

// WithIDGenerator replaces the UUID generator, for deterministic tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithChangeListener registers a change notification hook.
func WithChangeListener(fn ChangeListener) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore creates a store with default state. Call Load to pick up
// previously persisted records.
func NewStore(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider:    provider,
		logger:      slog.Default(),
		horizonDays: recurrence.DefaultHorizonDays,
		newID:       uuid.NewString,
		events:      make(map[string][]models.Event),
		todos:       make(map[string][]models.Todo),
		categories:  models.DefaultCategories(),
		periods:     models.DefaultTimePeriods(),
		written:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the four persisted records. A missing or corrupt record
// falls back to its default without affecting the other three.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

func (s *Store) loadLocked() {
	events := make(map[string][]models.Event)
	if s.readRecord(storage.RecordEvents, &events) {
		s.events = events
	} else {
		s.events = make(map[string][]models.Event)
	}

	categories := make(map[string]models.Category)
	if s.readRecord(storage.RecordCategories, &categories) && len(categories) > 0 {
		s.categories = categories
	} else {
		s.categories = models.DefaultCategories()
	}

	todos := make(map[string][]models.Todo)
	if s.readRecord(storage.RecordTodos, &todos) {
		s.todos = todos
	} else {
		s.todos = make(map[string][]models.Todo)
	}

	var periods models.TimePeriods
	if s.readRecord(storage.RecordTimePeriods, &periods) {
		s.periods = periods
	} else {
		s.periods = models.DefaultTimePeriods()
	}
}

// readRecord fills v from a persisted record, reporting whether it
// succeeded. Absence is normal on first run; anything else is logged.
func (s *Store) readRecord(name string, v any) bool {
	data, err := s.provider.ReadRecord(name)
	if err != nil {
		if !errors.Is(err, storage.ErrRecordNotFound) {
			s.logger.Warn("planner: read record failed",
				slog.String("record", name), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("planner: corrupt record, using defaults",
			slog.String("record", name), slog.String("error", err.Error()))
		return false
	}
	s.written[name] = checksum.Sum(data)
	return true
}

// Reload re-reads the persisted records after an external change. It
// returns false when every record on disk matches the store's own last
// write, meaning there is nothing to pick up.
func (s *Store) Reload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	external := false
	for _, name := range storage.Names() {
		data, err := s.provider.ReadRecord(name)
		if err != nil {
			if _, ok := s.written[name]; ok {
				external = true
			}
			continue
		}
		if checksum.Sum(data) != s.written[name] {
			external = true
		}
	}
	if !external {
		return false
	}
	s.loadLocked()
	return true
}

// persistLocked serializes the aggregate to the provider. Failures are
// logged and swallowed: in-memory state wins until the next successful
// write (no retry queue).
func (s *Store) persistLocked() {
	s.writeRecord(storage.RecordEvents, s.events)
	s.writeRecord(storage.RecordCategories, s.categories)
	s.writeRecord(storage.RecordTodos, s.todos)
	s.writeRecord(storage.RecordTimePeriods, s.periods)
}

func (s *Store) writeRecord(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("planner: marshal record failed",
			slog.String("record", name), slog.String("error", err.Error()))
		return
	}
	if err := s.provider.WriteRecord(name, data); err != nil {
		s.logger.Warn("planner: persist failed",
			slog.String("record", name), slog.String("error", err.Error()))
		return
	}
	s.written[name] = checksum.Sum(data)
}

func (s *Store) notify(kind, date string) {
	if s.onChange != nil {
		s.onChange(kind, date)
	}
}

// EventsFor returns the events stored on a date, empty if none.
func (s *Store) EventsFor(date string) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Event(nil), s.events[date]...)
}

// TodosFor returns the to-dos stored on a date, empty if none.
func (s *Store) TodosFor(date string) []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Todo(nil), s.todos[date]...)
}

// Categories returns a copy of the current category set.
func (s *Store) Categories() map[string]models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.Category, len(s.categories))
	for id, c := range s.categories {
		out[id] = c
	}
	return out
}

// ResolveCategory resolves a category id for display. A dangling id
// (deleted non-default category) falls back to the permanent fallback
// category; the stored reference is never rewritten.
func (s *Store) ResolveCategory(id string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.categories[id]; ok {
		return c
	}
	if c, ok := s.categories[models.FallbackCategoryID]; ok {
		return c
	}
	return models.DefaultCategories()[models.FallbackCategoryID]
}

// TimePeriods returns the current day segmentation.
func (s *Store) TimePeriods() models.TimePeriods {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.periods
}

// DaySummary counts the entries stored on one date.
type DaySummary struct {
	Date   string `json:"date"`
	Events int    `json:"events"`
	Todos  int    `json:"todos"`
}

// Summaries returns per-date entry counts for dates in [from, to],
// sorted chronologically. Date keys compare lexicographically, which
// matches chronological order for ISO keys.
func (s *Store) Summaries(from, to string) []DaySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]*DaySummary)
	for date, evs := range s.events {
		if date < from || date > to {
			continue
		}
		counts[date] = &DaySummary{Date: date, Events: len(evs)}
	}
	for date, tds := range s.todos {
		if date < from || date > to {
			continue
		}
		if c, ok := counts[date]; ok {
			c.Todos = len(tds)
		} else {
			counts[date] = &DaySummary{Date: date, Todos: len(tds)}
		}
	}

	out := make([]DaySummary, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
