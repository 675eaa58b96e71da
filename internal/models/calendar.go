// Package models defines the domain types for the planner.
package models

// Recurrence rule kinds.
const (
	RecurrenceNone   = "none"
	RecurrenceDays   = "days"
	RecurrenceWeeks  = "weeks"
	RecurrenceMonths = "months"
)

// Duration presets for events.
const (
	DurationCustom = "custom"
	DurationAllDay = "allday"
	Duration30Min  = "30min"
	Duration1H     = "1h"
	Duration2H     = "2h"
	Duration3H     = "3h"
)

// ValidDurationType reports whether t is a known duration preset.
func ValidDurationType(t string) bool {
	switch t {
	case DurationCustom, DurationAllDay, Duration30Min, Duration1H, Duration2H, Duration3H:
		return true
	}
	return false
}

// Recurrence describes how an event repeats. Interval applies to the
// "days" and "months" kinds; Weekdays (0=Sunday .. 6=Saturday) applies
// to the "weeks" kind.
type Recurrence struct {
	Type     string `json:"type"`
	Interval int    `json:"interval,omitempty"`
	Weekdays []int  `json:"weekdays,omitempty"`
}

// IsNone reports whether r describes a non-repeating event.
func (r *Recurrence) IsNone() bool {
	return r == nil || r.Type == "" || r.Type == RecurrenceNone
}

// Clone returns a deep copy of r, or nil when r is nil.
func (r *Recurrence) Clone() *Recurrence {
	if r == nil {
		return nil
	}
	c := *r
	if r.Weekdays != nil {
		c.Weekdays = append([]int(nil), r.Weekdays...)
	}
	return &c
}

// Event is a single calendar entry on one date. Instances expanded from
// a recurring draft share one RecurrenceID, minted with the group.
type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Category     string      `json:"category"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	DurationType string      `json:"durationType"`
	Recurrence   *Recurrence `json:"recurrence"`
	RecurrenceID string      `json:"recurrenceId,omitempty"`
}

// Todo is a per-date checklist item, independent of events.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Category labels and colors events. Events reference categories by id;
// the reference is weak and resolved to a fallback when dangling.
type Category struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// TimePeriod is one day segment holding a half-open decimal-hour range
// [start, end).
type TimePeriod struct {
	Label string     `json:"label"`
	Range [2]float64 `json:"range"`
}

// TimePeriods is the configured day segmentation. The three ranges are
// contiguous and ordered: morning.start < morning.end = day.start <
// day.end = evening.start < evening.end.
type TimePeriods struct {
	Morning TimePeriod `json:"morning"`
	Day     TimePeriod `json:"day"`
	Evening TimePeriod `json:"evening"`
}

// Segment names.
const (
	SegmentMorning = "morning"
	SegmentDay     = "day"
	SegmentEvening = "evening"
)

// FallbackCategoryID resolves dangling category references at read time.
const FallbackCategoryID = "other"

var defaultCategoryIDs = []string{"work", "personal", "health", "other"}

// IsDefaultCategory reports whether id names a permanent category that
// can never be removed.
func IsDefaultCategory(id string) bool {
	for _, d := range defaultCategoryIDs {
		if d == id {
			return true
		}
	}
	return false
}

// DefaultCategories returns a fresh copy of the built-in category set.
func DefaultCategories() map[string]Category {
	return map[string]Category{
		"work":     {Label: "Work", Color: "bg-blue-500"},
		"personal": {Label: "Personal", Color: "bg-green-500"},
		"health":   {Label: "Health", Color: "bg-red-500"},
		"other":    {Label: "Other", Color: "bg-gray-500"},
	}
}

// DefaultTimePeriods returns the built-in day segmentation.
func DefaultTimePeriods() TimePeriods {
	return TimePeriods{
		Morning: TimePeriod{Label: "Morning (06:00-08:30)", Range: [2]float64{6, 8.5}},
		Day:     TimePeriod{Label: "Day (08:30-18:00)", Range: [2]float64{8.5, 18}},
		Evening: TimePeriod{Label: "Evening (18:00-24:00)", Range: [2]float64{18, 24}},
	}
}
