// Package recurrence expands recurrence rules into the ordered set of
// calendar dates a recurring event occupies.
package recurrence

import (
	"fmt"
	"strings"

	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
)

// DefaultHorizonDays bounds how far forward expansion generates
// instances when the caller does not pick a horizon.
const DefaultHorizonDays = 365

// maxSteps caps the generation loop regardless of the horizon, so
// expansion terminates even on malformed interval input.
const maxSteps = 2000

// Expand generates the ordered date keys a rule produces from start,
// inclusive. The result always begins with start, is strictly
// increasing, and contains no date more than horizonDays after start.
// A horizonDays <= 0 falls back to DefaultHorizonDays. Expansion is a
// pure function of its inputs.
func Expand(start string, rule *models.Recurrence, horizonDays int) ([]string, error) {
	if _, err := timeutil.ParseISODate(start); err != nil {
		return nil, fmt.Errorf("recurrence: invalid start: %w", err)
	}
	dates := []string{start}
	if rule.IsNone() {
		return dates, nil
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	cur := start
	for step := 0; step < maxSteps; step++ {
		next, err := nextDate(cur, rule)
		if err != nil {
			return nil, err
		}
		if next == "" {
			break
		}
		diff, err := timeutil.DaysBetween(start, next)
		if err != nil {
			return nil, err
		}
		if diff > horizonDays {
			break
		}
		dates = append(dates, next)
		cur = next
	}
	return dates, nil
}

// nextDate returns the first generated date after cur, or "" when the
// rule cannot produce one.
func nextDate(cur string, rule *models.Recurrence) (string, error) {
	switch rule.Type {
	case models.RecurrenceDays:
		return timeutil.AddDays(cur, normalizeInterval(rule.Interval))

	case models.RecurrenceWeeks:
		if len(rule.Weekdays) == 0 {
			return "", nil
		}
		// The next matching weekday is at most 7 days out; a full scan
		// with no hit means the set held no valid weekday values.
		for probe := 1; probe <= 7; probe++ {
			candidate, err := timeutil.AddDays(cur, probe)
			if err != nil {
				return "", err
			}
			wd, err := timeutil.DayOfWeek(candidate)
			if err != nil {
				return "", err
			}
			if containsWeekday(rule.Weekdays, int(wd)) {
				return candidate, nil
			}
		}
		return "", nil

	case models.RecurrenceMonths:
		return timeutil.AddMonths(cur, normalizeInterval(rule.Interval))

	default:
		return "", nil
	}
}

func normalizeInterval(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func containsWeekday(days []int, wd int) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe renders a rule as a short human-readable summary, or "" for
// a non-repeating rule.
func Describe(rule *models.Recurrence) string {
	if rule.IsNone() {
		return ""
	}
	switch rule.Type {
	case models.RecurrenceDays:
		if n := normalizeInterval(rule.Interval); n > 1 {
			return fmt.Sprintf("Every %d days", n)
		}
		return "Every day"

	case models.RecurrenceWeeks:
		if len(rule.Weekdays) == 0 {
			return ""
		}
		names := make([]string, 0, len(rule.Weekdays))
		for _, d := range rule.Weekdays {
			if d >= 0 && d < len(weekdayNames) {
				names = append(names, weekdayNames[d])
			}
		}
		return "Every " + strings.Join(names, ", ")

	case models.RecurrenceMonths:
		if n := normalizeInterval(rule.Interval); n > 1 {
			return fmt.Sprintf("Every %d months", n)
		}
		return "Every month"
	}
	return ""
}
