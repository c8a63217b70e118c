package workers

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

type ResetTrackableRepository interface {
	ListByResetFrequency(ctx context.Context, frequency string) ([]*domain.Trackable, error)
	ApplyDelta(ctx context.Context, id string, delta int) (previous, current int, err error)
}

type ResetLogRepository interface {
	Create(ctx context.Context, entry *domain.TrackableLog) error
}

// ResetScheduler zeroes progress counters on their reset_frequency cadence:
// daily counters every midnight, weekly counters on Monday midnight. Each
// reset leaves a `reset` audit row so the value history stays replayable.
type ResetScheduler struct {
	repo    ResetTrackableRepository
	logRepo ResetLogRepository
	cron    *cron.Cron
}

func NewResetScheduler(repo ResetTrackableRepository, logRepo ResetLogRepository) *ResetScheduler {
	return &ResetScheduler{
		repo:    repo,
		logRepo: logRepo,
	}
}

func (s *ResetScheduler) Start() error {
	s.cron = cron.New(cron.WithLocation(time.UTC))

	_, err := s.cron.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.ResetDue(ctx, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Reset scheduler started (midnight UTC)")
	return nil
}

func (s *ResetScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// ResetDue performs the resets owed at the given instant. Exposed so the
// cadence logic is testable without waiting for midnight.
func (s *ResetScheduler) ResetDue(ctx context.Context, now time.Time) {
	s.resetFrequency(ctx, domain.ResetDaily)
	if now.Weekday() == time.Monday {
		s.resetFrequency(ctx, domain.ResetWeekly)
	}
}

func (s *ResetScheduler) resetFrequency(ctx context.Context, frequency string) {
	due, err := s.repo.ListByResetFrequency(ctx, frequency)
	if err != nil {
		log.Printf("Reset scheduler: listing %s trackables failed: %v", frequency, err)
		return
	}

	for _, t := range due {
		if t.CurrentValue == 0 {
			continue
		}

		previous, current, err := s.repo.ApplyDelta(ctx, t.ID, -t.CurrentValue)
		if err != nil {
			log.Printf("Reset scheduler: resetting %s failed: %v", t.ID, err)
			continue
		}

		entry := domain.NewTrackableLog(t.ID, t.UserID, domain.ActionReset, previous, current)
		if err := s.logRepo.Create(ctx, entry); err != nil {
			log.Printf("Reset scheduler: audit log for %s failed: %v", t.ID, err)
		}
	}
}
