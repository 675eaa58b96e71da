package recurrence

import (
	"reflect"
	"testing"

	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
)

func TestExpand_NoneRule(t *testing.T) {
	for _, rule := range []*models.Recurrence{
		nil,
		{Type: models.RecurrenceNone},
		{Type: ""},
	} {
		got, err := Expand("2025-03-10", rule, DefaultHorizonDays)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"2025-03-10"}) {
			t.Errorf("Expand(none) = %v", got)
		}
	}
}

func TestExpand_InvalidStart(t *testing.T) {
	if _, err := Expand("not-a-date", nil, 0); err == nil {
		t.Error("expected error for invalid start date")
	}
}

func TestExpand_EveryNDays(t *testing.T) {
	rule := &models.Recurrence{Type: models.RecurrenceDays, Interval: 7}
	got, err := Expand("2025-03-10", rule, DefaultHorizonDays)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got[0] != "2025-03-10" || got[1] != "2025-03-17" || got[2] != "2025-03-24" {
		t.Errorf("head = %v", got[:3])
	}
	// Weekly over a 365-day horizon: offsets 0, 7, ..., 364.
	if len(got) != 53 {
		t.Errorf("len = %d, want 53", len(got))
	}
	last := got[len(got)-1]
	if last != "2026-03-09" {
		t.Errorf("last = %q, want 2026-03-09", last)
	}
}

func TestExpand_HorizonInclusiveBoundary(t *testing.T) {
	// An instance exactly horizonDays after start is kept.
	rule := &models.Recurrence{Type: models.RecurrenceMonths, Interval: 12}
	got, err := Expand("2025-03-10", rule, 365)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"2025-03-10", "2026-03-10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_Weekdays(t *testing.T) {
	// 2025-03-09 is a Sunday; Mon/Wed/Fri should follow, cycling weekly.
	rule := &models.Recurrence{Type: models.RecurrenceWeeks, Weekdays: []int{1, 3, 5}}
	got, err := Expand("2025-03-09", rule, 14)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{
		"2025-03-09",
		"2025-03-10", "2025-03-12", "2025-03-14",
		"2025-03-17", "2025-03-19", "2025-03-21",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_WeekdaysEmptySet(t *testing.T) {
	rule := &models.Recurrence{Type: models.RecurrenceWeeks}
	got, err := Expand("2025-03-09", rule, DefaultHorizonDays)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"2025-03-09"}) {
		t.Errorf("Expand = %v, want start only", got)
	}
}

func TestExpand_WeekdaysInvalidValues(t *testing.T) {
	// A set with no value in 0..6 can never match a probe; generation
	// stops after the defensive scan instead of looping.
	rule := &models.Recurrence{Type: models.RecurrenceWeeks, Weekdays: []int{9}}
	got, err := Expand("2025-03-09", rule, DefaultHorizonDays)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestExpand_EveryNMonths(t *testing.T) {
	rule := &models.Recurrence{Type: models.RecurrenceMonths, Interval: 3}
	got, err := Expand("2025-01-15", rule, DefaultHorizonDays)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"2025-01-15", "2025-04-15", "2025-07-15", "2025-10-15", "2026-01-15"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_MonthOverflowChains(t *testing.T) {
	// Jan 31 + 1 month overflows to Mar 3; subsequent steps add to the
	// generated date, not the original start.
	rule := &models.Recurrence{Type: models.RecurrenceMonths, Interval: 1}
	got, err := Expand("2025-01-31", rule, 90)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"2025-01-31", "2025-03-03", "2025-04-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_NonPositiveIntervalNormalized(t *testing.T) {
	for _, interval := range []int{0, -5} {
		rule := &models.Recurrence{Type: models.RecurrenceDays, Interval: interval}
		got, err := Expand("2025-03-10", rule, 3)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		want := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("interval %d: Expand = %v, want %v", interval, got, want)
		}
	}
}

func TestExpand_StepCapTerminates(t *testing.T) {
	// A daily rule over a huge horizon stops at the step cap.
	rule := &models.Recurrence{Type: models.RecurrenceDays, Interval: 1}
	got, err := Expand("2025-01-01", rule, 1000000)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != maxSteps+1 {
		t.Errorf("len = %d, want %d", len(got), maxSteps+1)
	}
}

func TestExpand_StrictlyIncreasingAndDeterministic(t *testing.T) {
	rules := []*models.Recurrence{
		{Type: models.RecurrenceDays, Interval: 3},
		{Type: models.RecurrenceWeeks, Weekdays: []int{0, 6}},
		{Type: models.RecurrenceMonths, Interval: 2},
	}
	for _, rule := range rules {
		first, err := Expand("2025-03-10", rule, DefaultHorizonDays)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		for i := 1; i < len(first); i++ {
			if !(first[i-1] < first[i]) {
				t.Errorf("rule %s: %q not before %q", rule.Type, first[i-1], first[i])
			}
			diff, _ := timeutil.DaysBetween("2025-03-10", first[i])
			if diff > DefaultHorizonDays {
				t.Errorf("rule %s: %q beyond horizon", rule.Type, first[i])
			}
		}
		second, _ := Expand("2025-03-10", rule, DefaultHorizonDays)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("rule %s: expansion not deterministic", rule.Type)
		}
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		rule *models.Recurrence
		want string
	}{
		{nil, ""},
		{&models.Recurrence{Type: models.RecurrenceNone}, ""},
		{&models.Recurrence{Type: models.RecurrenceDays, Interval: 1}, "Every day"},
		{&models.Recurrence{Type: models.RecurrenceDays, Interval: 3}, "Every 3 days"},
		{&models.Recurrence{Type: models.RecurrenceWeeks, Weekdays: []int{1, 3, 5}}, "Every Mon, Wed, Fri"},
		{&models.Recurrence{Type: models.RecurrenceWeeks}, ""},
		{&models.Recurrence{Type: models.RecurrenceMonths, Interval: 1}, "Every month"},
		{&models.Recurrence{Type: models.RecurrenceMonths, Interval: 2}, "Every 2 months"},
	}
	for _, c := range cases {
		if got := Describe(c.rule); got != c.want {
			t.Errorf("Describe(%+v) = %q, want %q", c.rule, got, c.want)
		}
	}
}
