package domain

import (
	"context"
	"errors"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrSummaryNotFound = errors.New("daily summary not found")
)

// Record repositories are deliberately thin: validated inserts, date-keyed
// reads, and owner-scoped deletes. Dates travel as YYYY-MM-DD strings so a
// "day" means the same thing in the API, the database, and the rule core.

type HealthMetricRepository interface {
	Upsert(ctx context.Context, m *HealthMetric) error
	GetByDate(ctx context.Context, userID, date string) (*HealthMetric, error)
	ListByRange(ctx context.Context, userID, from, to string) ([]*HealthMetric, error)
	Delete(ctx context.Context, id, userID string) error
}

type MoodLogRepository interface {
	Upsert(ctx context.Context, m *MoodLog) error
	GetByDate(ctx context.Context, userID, date string) (*MoodLog, error)
	ListByRange(ctx context.Context, userID, from, to string) ([]*MoodLog, error)
	Delete(ctx context.Context, id, userID string) error
}

type FocusSessionRepository interface {
	Create(ctx context.Context, s *FocusSession) error
	ListByRange(ctx context.Context, userID, from, to string) ([]*FocusSession, error)
	Delete(ctx context.Context, id, userID string) error
}

type FinanceEntryRepository interface {
	Create(ctx context.Context, e *FinanceEntry) error
	ListByRange(ctx context.Context, userID, from, to string) ([]*FinanceEntry, error)
	Delete(ctx context.Context, id, userID string) error
}

type DailySummaryRepository interface {
	Upsert(ctx context.Context, s *DailySummary) error
	GetByDate(ctx context.Context, userID, date string) (*DailySummary, error)
}
