package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/schedule"
)

type SummaryService struct {
	repo domain.DailySummaryRepository
}

func NewSummaryService(repo domain.DailySummaryRepository) *SummaryService {
	return &SummaryService{repo: repo}
}

type SummaryInput struct {
	UserID            string
	SummaryDate       string
	OngoingConditions []string
	Notes             string

	// CarryOver is the user's answer to "copy yesterday's ongoing
	// conditions?". It only applies when this day has no summary yet and
	// the request itself carries no conditions; declining starts the day
	// with an empty list.
	CarryOver bool
}

func (s *SummaryService) GetByDate(ctx context.Context, userID, date string) (*domain.DailySummary, error) {
	if _, err := schedule.ParseDay(date, time.UTC); err != nil {
		return nil, err
	}
	return s.repo.GetByDate(ctx, userID, date)
}

// Upsert writes the day's summary, resolving the carry-over decision first.
// The copy is verbatim: whatever list the previous day held is what today
// starts with.
func (s *SummaryService) Upsert(ctx context.Context, input SummaryInput) (*domain.DailySummary, error) {
	day, err := schedule.ParseDay(input.SummaryDate, time.UTC)
	if err != nil {
		return nil, err
	}

	conditions := input.OngoingConditions

	existing, err := s.repo.GetByDate(ctx, input.UserID, input.SummaryDate)
	switch {
	case err == nil:
		// Day already has a summary; carry-over was decided at creation.
	case errors.Is(err, domain.ErrSummaryNotFound):
		if input.CarryOver && len(conditions) == 0 {
			prevDate := day.AddDate(0, 0, -1).Format(schedule.DayFormat)
			prev, prevErr := s.repo.GetByDate(ctx, input.UserID, prevDate)
			if prevErr == nil && len(prev.OngoingConditions) > 0 {
				conditions = append([]string(nil), prev.OngoingConditions...)
			}
		}
	default:
		return nil, err
	}

	summary := &domain.DailySummary{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		SummaryDate:       input.SummaryDate,
		OngoingConditions: conditions,
		Notes:             input.Notes,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if existing != nil {
		summary.ID = existing.ID
		summary.CreatedAt = existing.CreatedAt
	}

	if err := summary.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	return summary, nil
}
