package services

import (
	"context"
	"log"
	"time"

	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/schedule"
)

// StatsService assembles the weekly dashboard. Its widget reads are
// auxiliary by design: any sub-read that fails is logged and degrades to
// empty/zero so a broken widget never takes the whole page down.
type StatsService struct {
	trackables domain.TrackableRepository
	logs       domain.TrackableLogRepository
	mood       domain.MoodLogRepository
	focus      domain.FocusSessionRepository
	finance    domain.FinanceEntryRepository
	users      domain.UserRepository

	now func() time.Time
}

func NewStatsService(trackables domain.TrackableRepository, logs domain.TrackableLogRepository, mood domain.MoodLogRepository, focus domain.FocusSessionRepository, finance domain.FinanceEntryRepository, users domain.UserRepository) *StatsService {
	return &StatsService{
		trackables: trackables,
		logs:       logs,
		mood:       mood,
		focus:      focus,
		finance:    finance,
		users:      users,
		now:        time.Now,
	}
}

// WithNow overrides the clock source. Test hook; production wiring never
// calls it.
func (s *StatsService) WithNow(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// WeeklyOverview aggregates the Monday-to-Sunday week containing the given
// YYYY-MM-DD anchor day (empty means today). The anchor resolves in the
// user's timezone, so "this week" is the user's week, not the server's.
// Unlike the widget reads, a bad date or a missing user is a real error.
func (s *StatsService) WeeklyOverview(ctx context.Context, userID, date string) (*domain.WeeklyOverview, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	loc := user.Location()
	anchor := s.now().In(loc)
	if date != "" {
		anchor, err = schedule.ParseDay(date, loc)
		if err != nil {
			return nil, err
		}
	}

	weekStart := schedule.StartOfWeek(anchor)
	weekEnd := schedule.EndOfWeek(anchor)

	overview := &domain.WeeklyOverview{
		StartDate:        weekStart.Format(schedule.DayFormat),
		EndDate:          weekEnd.Format(schedule.DayFormat),
		CompletionsByDay: make([]int, 7),
	}

	if list, err := s.trackables.ListByUserID(ctx, userID); err != nil {
		log.Printf("stats service: trackable list degraded to empty: %v", err)
	} else {
		for _, t := range list {
			if t.Status != domain.StatusArchived {
				overview.ActiveTrackables++
			}
		}
	}

	if entries, err := s.logs.ListByUserAndRange(ctx, userID, weekStart, weekEnd); err != nil {
		log.Printf("stats service: completion logs degraded to empty: %v", err)
	} else {
		for _, entry := range entries {
			if entry.Action != domain.ActionCompleted {
				continue
			}
			overview.TotalCompletions++
			idx := (int(entry.CreatedAt.In(loc).Weekday()) + 6) % 7
			overview.CompletionsByDay[idx]++
		}
	}

	from := overview.StartDate
	to := overview.EndDate

	if moods, err := s.mood.ListByRange(ctx, userID, from, to); err != nil {
		log.Printf("stats service: mood logs degraded to empty: %v", err)
	} else if len(moods) > 0 {
		sum := 0
		for _, m := range moods {
			sum += m.Mood
		}
		overview.AverageMood = float64(sum) / float64(len(moods))
	}

	if sessions, err := s.focus.ListByRange(ctx, userID, from, to); err != nil {
		log.Printf("stats service: focus sessions degraded to empty: %v", err)
	} else {
		for _, sess := range sessions {
			overview.FocusMinutes += sess.DurationMin
		}
	}

	if entries, err := s.finance.ListByRange(ctx, userID, from, to); err != nil {
		log.Printf("stats service: finance entries degraded to empty: %v", err)
	} else {
		for _, e := range entries {
			if e.Kind == domain.FinanceIncome {
				overview.IncomeCents += e.AmountCents
			} else {
				overview.ExpenseCents += e.AmountCents
			}
		}
	}

	return overview, nil
}
