package schedule

import (
	"errors"
	"sort"
	"time"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

var ErrTargetNotReached = errors.New("progress target not reached")

// CompletedOn reports whether a trackable counts as completed for the
// calendar day of now. The predicate is type-dependent:
//
//   - daily_habit: only the timestamp matters. A habit completed yesterday
//     is not completed today, regardless of status; this is what gives
//     habits their daily reset.
//   - one_time: status must be completed and the completion must have
//     happened on this calendar day.
//   - progress: the target must be reached and last_completed_at must fall
//     on this calendar day. Reaching the target yesterday does not carry.
func CompletedOn(t *domain.Trackable, now time.Time) bool {
	if t == nil {
		return false
	}

	switch t.Type {
	case domain.TypeDailyHabit:
		return t.LastCompletedAt != nil && SameCalendarDay(now, *t.LastCompletedAt)

	case domain.TypeOneTime:
		return t.Status == domain.StatusCompleted &&
			t.LastCompletedAt != nil && SameCalendarDay(now, *t.LastCompletedAt)

	case domain.TypeProgress:
		return t.ReachedTarget() &&
			t.LastCompletedAt != nil && SameCalendarDay(now, *t.LastCompletedAt)

	default:
		return false
	}
}

// ToggleCompletion flips the completion state of t for the calendar day of
// now, mutating t in place. Toggling twice restores the original state.
//
// Progress counters only toggle the day-scoped completion mark; their value
// moves exclusively through increment/decrement, and the mark cannot be set
// before the target is reached.
func ToggleCompletion(t *domain.Trackable, now time.Time) error {
	completed := CompletedOn(t, now)

	switch t.Type {
	case domain.TypeDailyHabit:
		if completed {
			t.LastCompletedAt = nil
		} else {
			ts := now
			t.LastCompletedAt = &ts
		}

	case domain.TypeOneTime:
		if completed {
			t.Status = domain.StatusActive
			t.LastCompletedAt = nil
		} else {
			ts := now
			t.Status = domain.StatusCompleted
			t.LastCompletedAt = &ts
		}

	case domain.TypeProgress:
		if completed {
			t.LastCompletedAt = nil
		} else {
			if !t.ReachedTarget() {
				return ErrTargetNotReached
			}
			ts := now
			t.LastCompletedAt = &ts
		}

	default:
		return domain.ErrInvalidTrackableType
	}

	t.UpdatedAt = now.UTC()
	return nil
}

// DayBuckets is the categorized day view handed to rendering.
type DayBuckets struct {
	Completed []*domain.Trackable `json:"completed"`
	Pending   []*domain.Trackable `json:"pending"`
	Upcoming  []*domain.Trackable `json:"upcoming"`
}

// Categorize splits the (already recurrence-filtered) trackables for a day
// into completed / upcoming / pending. Upcoming means not yet completed with
// a scheduled_time later than now's clock time, ordered ascending by the
// HH:MM string; zero-padding makes the lexicographic order the time order.
func Categorize(items []*domain.Trackable, now time.Time) DayBuckets {
	buckets := DayBuckets{
		Completed: []*domain.Trackable{},
		Pending:   []*domain.Trackable{},
		Upcoming:  []*domain.Trackable{},
	}

	clock := now.Format("15:04")

	for _, t := range items {
		switch {
		case CompletedOn(t, now):
			buckets.Completed = append(buckets.Completed, t)
		case t.ScheduledTime != nil && *t.ScheduledTime > clock:
			buckets.Upcoming = append(buckets.Upcoming, t)
		default:
			buckets.Pending = append(buckets.Pending, t)
		}
	}

	sort.SliceStable(buckets.Upcoming, func(i, j int) bool {
		return *buckets.Upcoming[i].ScheduledTime < *buckets.Upcoming[j].ScheduledTime
	})

	return buckets
}
