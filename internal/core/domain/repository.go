package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTrackableNotFound = errors.New("trackable not found")
	ErrTrackableConflict = errors.New("trackable version conflict")
	ErrUnauthorized      = errors.New("unauthorized")
)

type TrackableRepository interface {
	// Create persists a new trackable definition.
	Create(ctx context.Context, t *Trackable) error

	// GetByID retrieves a trackable by its unique identifier.
	GetByID(ctx context.Context, id string) (*Trackable, error)

	// ListByUserID retrieves all trackables belonging to a user.
	ListByUserID(ctx context.Context, userID string) ([]*Trackable, error)

	// Update modifies the state of an existing trackable.
	Update(ctx context.Context, t *Trackable) error

	// Delete removes the row entirely. Trackables are hard-deleted; there
	// is no tombstone to resurrect.
	Delete(ctx context.Context, id string) error

	// ApplyDelta atomically adds delta to current_value in a single
	// statement, clamping the result at zero, and returns the previous and
	// resulting values. This is the counter path; it must never be
	// implemented as read-then-write.
	ApplyDelta(ctx context.Context, id string, delta int) (previous, current int, err error)

	// ListByResetFrequency retrieves every trackable with the given
	// reset_frequency across all users; used by the midnight reset job.
	ListByResetFrequency(ctx context.Context, frequency string) ([]*Trackable, error)

	// SetCompletion persists a completion-state change (status and
	// last_completed_at) without touching the counter columns.
	SetCompletion(ctx context.Context, id, status string, lastCompletedAt *time.Time) error

	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type TrackableLogRepository interface {
	// Create appends an audit row. Logs are immutable: no update or delete
	// is ever exposed.
	Create(ctx context.Context, entry *TrackableLog) error

	// ListByTrackableID retrieves logs for one trackable, newest first,
	// optionally restricted to a single action ("" means all).
	ListByTrackableID(ctx context.Context, trackableID, action string) ([]*TrackableLog, error)

	// ListByUserAndRange retrieves a user's logs inside [from, to], used by
	// the weekly dashboard aggregate.
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*TrackableLog, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
