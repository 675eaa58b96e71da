// Package timeutil provides the calendar-date and clock-time arithmetic
// shared by the recurrence expander, the planner store, and the API layer.
//
// Dates are YYYY-MM-DD strings derived from the local wall clock, so
// lexicographic ordering equals chronological ordering. Clock times are
// HH:MM 24-hour strings convertible to decimal hours for comparison.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/day-s-ea/Calendar-Todo/internal/models"
)

const isoLayout = "2006-01-02"

// ToISODate formats t as a local YYYY-MM-DD date key.
func ToISODate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseISODate parses a YYYY-MM-DD key into local midnight of that day.
func ParseISODate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(isoLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse date %q: %w", date, err)
	}
	return t, nil
}

func parseClock(clock string) (hours, minutes int, err error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, 0, fmt.Errorf("timeutil: malformed clock %q", clock)
	}
	hours, err = strconv.Atoi(clock[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("timeutil: parse clock %q: %w", clock, err)
	}
	minutes, err = strconv.Atoi(clock[3:])
	if err != nil {
		return 0, 0, fmt.Errorf("timeutil: parse clock %q: %w", clock, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("timeutil: clock %q out of range", clock)
	}
	return hours, minutes, nil
}

// DecimalHour converts an HH:MM clock time to decimal hours (H + M/60).
func DecimalHour(clock string) (float64, error) {
	h, m, err := parseClock(clock)
	if err != nil {
		return 0, err
	}
	return float64(h) + float64(m)/60, nil
}

// ClassifySegment buckets a clock time into one of the configured day
// segments. Given a validated periods config the three segments cover
// the day with no gaps or overlaps.
func ClassifySegment(clock string, periods models.TimePeriods) (string, error) {
	dec, err := DecimalHour(clock)
	if err != nil {
		return "", err
	}
	switch {
	case dec < periods.Morning.Range[1]:
		return models.SegmentMorning, nil
	case dec < periods.Day.Range[1]:
		return models.SegmentDay, nil
	default:
		return models.SegmentEvening, nil
	}
}

// FormatDuration renders the span between two clock times. Spans under
// one hour render as rounded minutes ("45min"); longer spans render as
// whole hours with the rounded remainder appended unless it is zero
// ("2h", "1h 30min").
func FormatDuration(start, end string) (string, error) {
	s, err := DecimalHour(start)
	if err != nil {
		return "", err
	}
	e, err := DecimalHour(end)
	if err != nil {
		return "", err
	}
	d := e - s
	if d < 1 {
		return fmt.Sprintf("%dmin", int(math.Round(d*60))), nil
	}
	hours := int(math.Floor(d))
	minutes := int(math.Round((d - float64(hours)) * 60))
	if minutes > 0 {
		return fmt.Sprintf("%dh %dmin", hours, minutes), nil
	}
	return fmt.Sprintf("%dh", hours), nil
}

// AddMinutes shifts a clock time by n minutes, wrapping modulo 24 hours.
func AddMinutes(clock string, n int) (string, error) {
	h, m, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	total := (h*60 + m + n) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return "", err
	}
	return ToISODate(t.AddDate(0, 0, n)), nil
}

// AddMonths shifts a date key by n calendar months. The day of month is
// preserved unless it exceeds the target month's length, in which case
// it overflows into the following month (standard date normalization).
func AddMonths(date string, n int) (string, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return "", err
	}
	return ToISODate(t.AddDate(0, n, 0)), nil
}

// DayOfWeek returns the weekday of a date key (0 = Sunday).
func DayOfWeek(date string) (time.Weekday, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// DaysBetween returns the whole calendar days from a to b (negative
// when b precedes a). The diff is computed on UTC-anchored midnights so
// daylight-saving shifts cannot skew it.
func DaysBetween(a, b string) (int, error) {
	at, err := ParseISODate(a)
	if err != nil {
		return 0, err
	}
	bt, err := ParseISODate(b)
	if err != nil {
		return 0, err
	}
	au := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(bt.Year(), bt.Month(), bt.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour)), nil
}
