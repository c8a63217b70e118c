package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

var _ domain.TrackableRepository = (*CachedTrackableRepository)(nil)

// CachedTrackableRepository memoizes ListByUserID in Redis and invalidates
// on every write. The cache is read-through and best-effort: Redis trouble
// degrades to the underlying repository, never to an error.
type CachedTrackableRepository struct {
	next  domain.TrackableRepository
	cache *redis.Client
}

func NewCachedTrackableRepository(next domain.TrackableRepository, cache *redis.Client) *CachedTrackableRepository {
	return &CachedTrackableRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedTrackableRepository) cacheKey(userID string) string {
	return fmt.Sprintf("trackables:%s", userID)
}

func (r *CachedTrackableRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedTrackableRepository) invalidateByID(ctx context.Context, id string) {
	t, err := r.next.GetByID(ctx, id)
	if err == nil && t != nil {
		r.invalidate(ctx, t.UserID)
	}
}

func (r *CachedTrackableRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Trackable, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var trackables []*domain.Trackable
		if err := json.Unmarshal([]byte(val), &trackables); err == nil {
			return trackables, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	trackables, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(trackables); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return trackables, nil
}

func (r *CachedTrackableRepository) GetByID(ctx context.Context, id string) (*domain.Trackable, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedTrackableRepository) Create(ctx context.Context, t *domain.Trackable) error {
	if err := r.next.Create(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.UserID)
	return nil
}

func (r *CachedTrackableRepository) Update(ctx context.Context, t *domain.Trackable) error {
	if err := r.next.Update(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.UserID)
	return nil
}

func (r *CachedTrackableRepository) Delete(ctx context.Context, id string) error {
	t, err := r.next.GetByID(ctx, id)
	if err == nil && t != nil {
		defer r.invalidate(ctx, t.UserID)
	}

	return r.next.Delete(ctx, id)
}

func (r *CachedTrackableRepository) ApplyDelta(ctx context.Context, id string, delta int) (previous, current int, err error) {
	previous, current, err = r.next.ApplyDelta(ctx, id, delta)
	if err == nil {
		r.invalidateByID(ctx, id)
	}
	return previous, current, err
}

func (r *CachedTrackableRepository) ListByResetFrequency(ctx context.Context, frequency string) ([]*domain.Trackable, error) {
	return r.next.ListByResetFrequency(ctx, frequency)
}

func (r *CachedTrackableRepository) SetCompletion(ctx context.Context, id, status string, lastCompletedAt *time.Time) error {
	if err := r.next.SetCompletion(ctx, id, status, lastCompletedAt); err != nil {
		return err
	}
	r.invalidateByID(ctx, id)
	return nil
}

func (r *CachedTrackableRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	if err := r.next.UpdateStreaks(ctx, id, current, longest); err != nil {
		return err
	}
	r.invalidateByID(ctx, id)
	return nil
}
