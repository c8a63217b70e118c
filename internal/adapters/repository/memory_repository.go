package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

// InMemoryTrackableRepository backs unit tests and local development
// without Postgres. It honors the same atomicity contract as the real
// repository: ApplyDelta holds the lock for the whole read-modify-write.
type InMemoryTrackableRepository struct {
	store map[string]*domain.Trackable

	mu sync.RWMutex
}

func NewInMemoryTrackableRepository() *InMemoryTrackableRepository {
	return &InMemoryTrackableRepository{
		store: make(map[string]*domain.Trackable),
	}
}

func (r *InMemoryTrackableRepository) Create(ctx context.Context, t *domain.Trackable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *t
	r.store[t.ID] = &clone
	return nil
}

func (r *InMemoryTrackableRepository) GetByID(ctx context.Context, id string) (*domain.Trackable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTrackableNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *InMemoryTrackableRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Trackable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trackables []*domain.Trackable
	for _, t := range r.store {
		if t.UserID == userID {
			clone := *t
			trackables = append(trackables, &clone)
		}
	}

	sort.Slice(trackables, func(i, j int) bool {
		return trackables[i].CreatedAt.After(trackables[j].CreatedAt)
	})

	return trackables, nil
}

func (r *InMemoryTrackableRepository) Update(ctx context.Context, t *domain.Trackable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[t.ID]; !ok {
		return domain.ErrTrackableNotFound
	}
	clone := *t
	r.store[t.ID] = &clone
	return nil
}

func (r *InMemoryTrackableRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTrackableNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryTrackableRepository) ApplyDelta(ctx context.Context, id string, delta int) (previous, current int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok {
		return 0, 0, domain.ErrTrackableNotFound
	}

	previous = t.CurrentValue
	current = previous + delta
	if current < 0 {
		current = 0
	}
	t.CurrentValue = current
	t.UpdatedAt = time.Now().UTC()

	return previous, current, nil
}

func (r *InMemoryTrackableRepository) ListByResetFrequency(ctx context.Context, frequency string) ([]*domain.Trackable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trackables []*domain.Trackable
	for _, t := range r.store {
		if t.ResetFrequency == frequency && t.Type == domain.TypeProgress && t.Status != domain.StatusArchived {
			clone := *t
			trackables = append(trackables, &clone)
		}
	}
	return trackables, nil
}

func (r *InMemoryTrackableRepository) SetCompletion(ctx context.Context, id, status string, lastCompletedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok {
		return domain.ErrTrackableNotFound
	}
	t.Status = status
	t.LastCompletedAt = lastCompletedAt
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryTrackableRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok {
		return domain.ErrTrackableNotFound
	}
	t.CurrentStreak = current
	t.LongestStreak = longest
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// InMemoryLogRepository is the test double for the audit trail.
type InMemoryLogRepository struct {
	entries []*domain.TrackableLog

	mu sync.RWMutex
}

func NewInMemoryLogRepository() *InMemoryLogRepository {
	return &InMemoryLogRepository{}
}

func (r *InMemoryLogRepository) Create(ctx context.Context, entry *domain.TrackableLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *InMemoryLogRepository) ListByTrackableID(ctx context.Context, trackableID, action string) ([]*domain.TrackableLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logs []*domain.TrackableLog
	for _, e := range r.entries {
		if e.TrackableID != trackableID {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		clone := *e
		logs = append(logs, &clone)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})

	return logs, nil
}

func (r *InMemoryLogRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.TrackableLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logs []*domain.TrackableLog
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		clone := *e
		logs = append(logs, &clone)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.Before(logs[j].CreatedAt)
	})

	return logs, nil
}
