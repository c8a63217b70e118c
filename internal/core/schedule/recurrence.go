package schedule

import (
	"time"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

// ShouldAppearOn decides whether a trackable is due on the given calendar
// day. Precedence, first match wins:
//
//  1. an exact scheduled_date match shows the item; a set but non-matching
//     scheduled_date hides it unless the item also recurs
//  2. a start_date after the day hides it, an end_date before the day too
//  3. a recurrence rule is evaluated (daily / weekly / monthly)
//  4. the legacy selected_days weekday-name list is consulted
//  5. an item with no scheduling information at all is never due
//
// The function is a pure predicate and fails closed: malformed rules or
// weekday names hide the item instead of erroring, since this drives page
// rendering.
//
// The scheduling fields and day are date-only values and compare via
// DateOnly: day arrives as midnight in the user's timezone while the stored
// dates are typically UTC midnights, and converting one into the other's
// location would shift the date for any user away from UTC.
func ShouldAppearOn(t *domain.Trackable, day time.Time) bool {
	if t == nil {
		return false
	}

	target := DateOnly(day)

	if t.ScheduledDate != nil {
		if target.Equal(DateOnly(*t.ScheduledDate)) {
			return true
		}
		if !t.IsRecurring {
			return false
		}
	}

	if t.StartDate != nil && target.Before(DateOnly(*t.StartDate)) {
		return false
	}
	if t.EndDate != nil && target.After(DateOnly(*t.EndDate)) {
		return false
	}

	if t.IsRecurring && t.Recurrence != nil {
		return matchesRule(t, t.Recurrence, day)
	}

	if len(t.SelectedDays) > 0 {
		return matchesSelectedDays(t.SelectedDays, day)
	}

	return false
}

func matchesRule(t *domain.Trackable, rule *domain.RecurrenceRule, day time.Time) bool {
	if rule.EndDate != nil && DateOnly(day).After(DateOnly(*rule.EndDate)) {
		return false
	}

	switch rule.Frequency {
	case domain.FreqDaily:
		return true

	case domain.FreqWeekly:
		if len(rule.DaysOfWeek) > 0 {
			return containsWeekday(rule.DaysOfWeek, day.Weekday())
		}
		// No explicit weekday list: anchor on the scheduled date's weekday
		// when there is one, otherwise every day of the week matches.
		if t.ScheduledDate != nil {
			return t.ScheduledDate.Weekday() == day.Weekday()
		}
		return true

	case domain.FreqMonthly:
		if t.ScheduledDate != nil {
			return t.ScheduledDate.Day() == day.Day()
		}
		return true

	default:
		return false
	}
}

func matchesSelectedDays(names []string, day time.Time) bool {
	for _, name := range names {
		wd, ok := ParseWeekday(name)
		if !ok {
			continue
		}
		if wd == day.Weekday() {
			return true
		}
	}
	return false
}

func containsWeekday(days []int, wd time.Weekday) bool {
	for _, d := range days {
		if d == int(wd) {
			return true
		}
	}
	return false
}
