package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

// RecordsService covers the thin per-domain write paths: health metrics,
// mood logs, focus sessions, and finance entries. Every operation is a
// validated insert/select scoped to the owning user; the interesting logic
// lives in the validators on the domain types.
type RecordsService struct {
	health  domain.HealthMetricRepository
	mood    domain.MoodLogRepository
	focus   domain.FocusSessionRepository
	finance domain.FinanceEntryRepository
}

func NewRecordsService(health domain.HealthMetricRepository, mood domain.MoodLogRepository, focus domain.FocusSessionRepository, finance domain.FinanceEntryRepository) *RecordsService {
	return &RecordsService{
		health:  health,
		mood:    mood,
		focus:   focus,
		finance: finance,
	}
}

type HealthMetricInput struct {
	UserID     string
	MetricDate string
	WeightKg   *float64
	SleepHours *float64
	WaterMl    int
	Steps      int
	Notes      string
}

func (s *RecordsService) LogHealthMetric(ctx context.Context, input HealthMetricInput) (*domain.HealthMetric, error) {
	now := time.Now().UTC()
	m := &domain.HealthMetric{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		MetricDate: input.MetricDate,
		WeightKg:   input.WeightKg,
		SleepHours: input.SleepHours,
		WaterMl:    input.WaterMl,
		Steps:      input.Steps,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.health.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *RecordsService) HealthMetrics(ctx context.Context, userID, from, to string) ([]*domain.HealthMetric, error) {
	return s.health.ListByRange(ctx, userID, from, to)
}

func (s *RecordsService) DeleteHealthMetric(ctx context.Context, id, userID string) error {
	return s.health.Delete(ctx, id, userID)
}

type MoodLogInput struct {
	UserID  string
	LogDate string
	Mood    int
	Anxiety int
	Notes   string
}

func (s *RecordsService) LogMood(ctx context.Context, input MoodLogInput) (*domain.MoodLog, error) {
	now := time.Now().UTC()
	m := &domain.MoodLog{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		LogDate:   input.LogDate,
		Mood:      input.Mood,
		Anxiety:   input.Anxiety,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.mood.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *RecordsService) MoodLogs(ctx context.Context, userID, from, to string) ([]*domain.MoodLog, error) {
	return s.mood.ListByRange(ctx, userID, from, to)
}

func (s *RecordsService) DeleteMoodLog(ctx context.Context, id, userID string) error {
	return s.mood.Delete(ctx, id, userID)
}

type FocusSessionInput struct {
	UserID      string
	StartedAt   time.Time
	DurationMin int
	Category    string
	Notes       string
}

func (s *RecordsService) LogFocusSession(ctx context.Context, input FocusSessionInput) (*domain.FocusSession, error) {
	sess := &domain.FocusSession{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		StartedAt:   input.StartedAt.UTC(),
		DurationMin: input.DurationMin,
		Category:    input.Category,
		Notes:       input.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := s.focus.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RecordsService) FocusSessions(ctx context.Context, userID, from, to string) ([]*domain.FocusSession, error) {
	return s.focus.ListByRange(ctx, userID, from, to)
}

func (s *RecordsService) DeleteFocusSession(ctx context.Context, id, userID string) error {
	return s.focus.Delete(ctx, id, userID)
}

type FinanceEntryInput struct {
	UserID      string
	EntryDate   string
	AmountCents int64
	Kind        string
	Category    string
	Notes       string
}

func (s *RecordsService) AddFinanceEntry(ctx context.Context, input FinanceEntryInput) (*domain.FinanceEntry, error) {
	e := &domain.FinanceEntry{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		EntryDate:   input.EntryDate,
		AmountCents: input.AmountCents,
		Kind:        input.Kind,
		Category:    input.Category,
		Notes:       input.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.finance.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *RecordsService) FinanceEntries(ctx context.Context, userID, from, to string) ([]*domain.FinanceEntry, error) {
	return s.finance.ListByRange(ctx, userID, from, to)
}

func (s *RecordsService) DeleteFinanceEntry(ctx context.Context, id, userID string) error {
	return s.finance.Delete(ctx, id, userID)
}
