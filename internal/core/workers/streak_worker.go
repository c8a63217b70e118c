package workers

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

type TrackableRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Trackable, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type LogRepository interface {
	ListByTrackableID(ctx context.Context, trackableID, action string) ([]*domain.TrackableLog, error)
}

type StreakJob struct {
	TrackableID string
}

// StreakWorker recomputes streaks off the request path. Completions enqueue
// a job; the worker replays the completion audit trail and persists the
// current/longest pair on the trackable row.
type StreakWorker struct {
	repo    TrackableRepository
	logRepo LogRepository
	jobs    chan StreakJob
}

func NewStreakWorker(repo TrackableRepository, logRepo LogRepository) *StreakWorker {
	return &StreakWorker{
		repo:    repo,
		logRepo: logRepo,
		jobs:    make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(trackableID string) {
	select {
	case w.jobs <- StreakJob{TrackableID: trackableID}:
	default:
		log.Printf("Streak worker queue full! Dropping job for trackable %s", trackableID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	t, err := w.repo.GetByID(ctx, job.TrackableID)
	if err != nil {
		log.Printf("Worker error fetching trackable %s: %v", job.TrackableID, err)
		return
	}

	logs, err := w.logRepo.ListByTrackableID(ctx, job.TrackableID, domain.ActionCompleted)
	if err != nil {
		log.Printf("Worker error fetching logs for %s: %v", job.TrackableID, err)
		return
	}

	dates := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		dates = append(dates, l.CreatedAt)
	}

	current, longest := CalculateStreaks(dates, time.Now().UTC())

	if t.CurrentStreak != current || t.LongestStreak != longest {
		if err := w.repo.UpdateStreaks(ctx, t.ID, current, longest); err != nil {
			log.Printf("Worker failed to update streaks for %s: %v", t.ID, err)
		} else {
			log.Printf("Streaks updated for %q: current=%d, longest=%d", t.Title, current, longest)
		}
	}
}

// CalculateStreaks runs a date-diff loop over completion timestamps.
// Timestamps are collapsed to unique UTC days first; the current streak
// counts back from the newest day and only survives if that day is today or
// yesterday relative to now.
func CalculateStreaks(completions []time.Time, now time.Time) (current, longest int) {
	if len(completions) == 0 {
		return 0, 0
	}

	uniqueDays := make(map[string]bool)
	var days []time.Time

	for _, c := range completions {
		key := c.UTC().Format("2006-01-02")
		if !uniqueDays[key] {
			uniqueDays[key] = true
			day, _ := time.Parse("2006-01-02", key)
			days = append(days, day)
		}
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	today := now.UTC().Truncate(24 * time.Hour)
	gap := today.Sub(days[0]).Hours() / 24

	if gap <= 1 {
		current = 1
		for i := 0; i < len(days)-1; i++ {
			if days[i].Sub(days[i+1]).Hours() == 24 {
				current++
			} else {
				break
			}
		}
	}

	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i].Sub(days[i+1]).Hours() == 24 {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}

	return current, longest
}
