package services

import (
	"context"
	"log"
	"time"

	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/schedule"
	"github.com/dmaddalena/lifelog/internal/core/workers"
)

type TrackableService struct {
	repo     domain.TrackableRepository
	logRepo  domain.TrackableLogRepository
	userRepo domain.UserRepository
	worker   *workers.StreakWorker

	now func() time.Time
}

func NewTrackableService(repo domain.TrackableRepository, logRepo domain.TrackableLogRepository, userRepo domain.UserRepository, worker *workers.StreakWorker) *TrackableService {
	return &TrackableService{
		repo:     repo,
		logRepo:  logRepo,
		userRepo: userRepo,
		worker:   worker,
		now:      time.Now,
	}
}

// WithNow overrides the clock source. Test hook; production wiring never
// calls it.
func (s *TrackableService) WithNow(now func() time.Time) *TrackableService {
	s.now = now
	return s
}

type ScheduleInput struct {
	StartDate     *time.Time
	EndDate       *time.Time
	ScheduledDate *time.Time
	IsRecurring   bool
	Recurrence    *domain.RecurrenceRule
	SelectedDays  []string
}

type CreateTrackableInput struct {
	UserID        string
	Title         string
	Type          string
	Priority      *string
	ScheduledTime *string
	ResetFreq     string
	TargetValue   *int
	Schedule      ScheduleInput
}

type UpdateTrackableInput struct {
	ID            string
	UserID        string
	Title         string
	Priority      *string
	ScheduledTime *string
	ResetFreq     string
	TargetValue   *int
	Schedule      ScheduleInput
}

func (s *TrackableService) Create(ctx context.Context, input CreateTrackableInput) (*domain.Trackable, error) {
	t, err := domain.NewTrackable(input.UserID, input.Title, input.Type)
	if err != nil {
		return nil, err
	}

	if err := t.Update(input.Title, input.Priority, input.ScheduledTime, input.ResetFreq, input.TargetValue); err != nil {
		return nil, err
	}

	sched := input.Schedule
	if err := t.SetSchedule(sched.StartDate, sched.EndDate, sched.ScheduledDate, sched.IsRecurring, sched.Recurrence, sched.SelectedDays); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *TrackableService) GetByID(ctx context.Context, id, userID string) (*domain.Trackable, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, domain.ErrTrackableNotFound
	}
	return t, nil
}

func (s *TrackableService) List(ctx context.Context, userID string) ([]*domain.Trackable, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TrackableService) Update(ctx context.Context, input UpdateTrackableInput) (*domain.Trackable, error) {
	t, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := t.Update(input.Title, input.Priority, input.ScheduledTime, input.ResetFreq, input.TargetValue); err != nil {
		return nil, err
	}

	sched := input.Schedule
	if err := t.SetSchedule(sched.StartDate, sched.EndDate, sched.ScheduledDate, sched.IsRecurring, sched.Recurrence, sched.SelectedDays); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *TrackableService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DayView returns the user's trackables due on the given YYYY-MM-DD day
// (empty means today in the user's timezone), recurrence-filtered and
// bucketed into completed / pending / upcoming.
func (s *TrackableService) DayView(ctx context.Context, userID, date string) (*schedule.DayBuckets, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	loc := user.Location()
	now := s.now().In(loc)

	day := schedule.StartOfDay(now)
	if date != "" {
		day, err = schedule.ParseDay(date, loc)
		if err != nil {
			return nil, err
		}
	}

	all, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var due []*domain.Trackable
	for _, t := range all {
		if t.Status == domain.StatusArchived {
			continue
		}
		if schedule.ShouldAppearOn(t, day) {
			due = append(due, t)
		}
	}

	buckets := schedule.Categorize(due, now)
	return &buckets, nil
}

// ToggleCompletion flips the day-scoped completion state of a trackable.
// A transition into the completed state writes an immutable audit log and
// wakes the streak worker; toggling back off only clears the timestamp.
func (s *TrackableService) ToggleCompletion(ctx context.Context, id, userID string) (*domain.Trackable, error) {
	t, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().In(user.Location())

	wasCompleted := schedule.CompletedOn(t, now)

	if err := schedule.ToggleCompletion(t, now); err != nil {
		return nil, err
	}

	if err := s.repo.SetCompletion(ctx, t.ID, t.Status, t.LastCompletedAt); err != nil {
		return nil, err
	}

	if !wasCompleted {
		entry := domain.NewTrackableLog(t.ID, userID, domain.ActionCompleted, t.CurrentValue, t.CurrentValue)
		if err := s.logRepo.Create(ctx, entry); err != nil {
			// The toggle itself is persisted; a lost audit row costs a
			// streak recount, not user data.
			log.Printf("trackable service: failed to write completion log for %s: %v", t.ID, err)
		}
		if s.worker != nil {
			s.worker.Enqueue(t.ID)
		}
	}

	return t, nil
}

// Increment adds one to a progress counter. The delta is applied in a
// single atomic statement at the storage layer, so two concurrent sessions
// never lose an update.
func (s *TrackableService) Increment(ctx context.Context, id, userID string) (*domain.Trackable, error) {
	return s.applyDelta(ctx, id, userID, 1)
}

// Decrement subtracts one, clamping at zero.
func (s *TrackableService) Decrement(ctx context.Context, id, userID string) (*domain.Trackable, error) {
	return s.applyDelta(ctx, id, userID, -1)
}

func (s *TrackableService) applyDelta(ctx context.Context, id, userID string, delta int) (*domain.Trackable, error) {
	t, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if t.Type != domain.TypeProgress {
		return nil, domain.ErrInvalidTrackableType
	}

	previous, current, err := s.repo.ApplyDelta(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	t.CurrentValue = current

	action := domain.ActionIncremented
	if delta < 0 {
		action = domain.ActionDecremented
	}
	entry := domain.NewTrackableLog(t.ID, userID, action, previous, current)
	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Printf("trackable service: failed to write %s log for %s: %v", action, t.ID, err)
	}

	// Crossing the target marks the counter completed for today; dropping
	// back below it on the same day clears the mark again.
	if delta > 0 && t.ReachedTarget() {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		now := s.now().In(user.Location())

		if t.LastCompletedAt == nil || !schedule.SameCalendarDay(now, *t.LastCompletedAt) {
			t.LastCompletedAt = &now
			if err := s.repo.SetCompletion(ctx, t.ID, t.Status, t.LastCompletedAt); err != nil {
				return nil, err
			}
			if s.worker != nil {
				s.worker.Enqueue(t.ID)
			}
		}
	} else if delta < 0 && !t.ReachedTarget() && t.LastCompletedAt != nil {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		now := s.now().In(user.Location())

		if schedule.SameCalendarDay(now, *t.LastCompletedAt) {
			t.LastCompletedAt = nil
			if err := s.repo.SetCompletion(ctx, t.ID, t.Status, nil); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

// Streaks recomputes the streak pair from the completion audit trail.
func (s *TrackableService) Streaks(ctx context.Context, id, userID string) (current, longest int, err error) {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return 0, 0, err
	}

	logs, err := s.logRepo.ListByTrackableID(ctx, id, domain.ActionCompleted)
	if err != nil {
		return 0, 0, err
	}

	dates := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		dates = append(dates, l.CreatedAt)
	}

	current, longest = workers.CalculateStreaks(dates, s.now().UTC())
	return current, longest, nil
}
