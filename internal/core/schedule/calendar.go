// Package schedule holds the pure rule core of lifelog: calendar math,
// recurrence evaluation, and completion-state resolution. Nothing in this
// package reads the wall clock or touches storage; every function takes its
// reference instant explicitly so behavior is deterministic under test.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const DayFormat = "2006-01-02"

// SameCalendarDay reports whether a and b fall on the same local calendar
// date. b is first moved into a's location so the comparison is by (year,
// month, day), never by elapsed time: a sub-24h difference straddling
// midnight is two days, and a DST-stretched 25h day is still one.
func SameCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly strips the clock and location from t, keeping only its calendar
// date as a UTC midnight. Scheduling fields (scheduled_date, start_date,
// end_date) are date-only values: the date the user picked is the date
// meant no matter what location the value was stored in, so they compare
// through DateOnly rather than as instants. SameCalendarDay stays
// instant-based and is for real timestamps like last_completed_at.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// ParseDay parses a YYYY-MM-DD string as midnight in the given location.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DayFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// weekdayNames accepts both English and Spanish spellings; the legacy
// selected_days column stored whichever the client UI was rendering.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

// ParseWeekday normalizes a stored weekday name to time.Weekday. Unknown
// names report ok=false rather than erroring; callers treat them as
// non-matching days.
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}
