package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmaddalena/lifelog/internal/adapters/repository"
	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

type mockMoodRepo struct {
	logs []*domain.MoodLog
	err  error
}

func (m *mockMoodRepo) Upsert(ctx context.Context, l *domain.MoodLog) error { return m.err }
func (m *mockMoodRepo) GetByDate(ctx context.Context, userID, date string) (*domain.MoodLog, error) {
	return nil, domain.ErrRecordNotFound
}
func (m *mockMoodRepo) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.MoodLog, error) {
	return m.logs, m.err
}
func (m *mockMoodRepo) Delete(ctx context.Context, id, userID string) error { return m.err }

type mockFocusRepo struct {
	sessions []*domain.FocusSession
	err      error
}

func (m *mockFocusRepo) Create(ctx context.Context, s *domain.FocusSession) error { return m.err }
func (m *mockFocusRepo) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.FocusSession, error) {
	return m.sessions, m.err
}
func (m *mockFocusRepo) Delete(ctx context.Context, id, userID string) error { return m.err }

type mockFinanceRepo struct {
	entries []*domain.FinanceEntry
	err     error
}

func (m *mockFinanceRepo) Create(ctx context.Context, e *domain.FinanceEntry) error { return m.err }
func (m *mockFinanceRepo) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.FinanceEntry, error) {
	return m.entries, m.err
}
func (m *mockFinanceRepo) Delete(ctx context.Context, id, userID string) error { return m.err }

func TestStatsServiceWeeklyOverview(t *testing.T) {
	// Saturday 2024-06-15; the containing week is Mon 10th .. Sun 16th.
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Aggregates the week", func(t *testing.T) {
		trackables := repository.NewInMemoryTrackableRepository()
		logs := repository.NewInMemoryLogRepository()

		habit, err := domain.NewTrackable("user-1", "Meditate", domain.TypeDailyHabit)
		assert.NoError(t, err)
		assert.NoError(t, trackables.Create(context.Background(), habit))

		archived, err := domain.NewTrackable("user-1", "Old habit", domain.TypeDailyHabit)
		assert.NoError(t, err)
		archived.Archive()
		assert.NoError(t, trackables.Create(context.Background(), archived))

		// Completions on Monday and Wednesday of the anchor week, plus one
		// outside the window that must not count.
		for _, day := range []time.Time{
			time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		} {
			entry := domain.NewTrackableLog(habit.ID, "user-1", domain.ActionCompleted, 0, 0)
			entry.CreatedAt = day
			assert.NoError(t, logs.Create(context.Background(), entry))
		}

		mood := &mockMoodRepo{logs: []*domain.MoodLog{
			{UserID: "user-1", LogDate: "2024-06-10", Mood: 6, Anxiety: 4},
			{UserID: "user-1", LogDate: "2024-06-12", Mood: 8, Anxiety: 2},
		}}
		focus := &mockFocusRepo{sessions: []*domain.FocusSession{
			{UserID: "user-1", DurationMin: 25},
			{UserID: "user-1", DurationMin: 50},
		}}
		finance := &mockFinanceRepo{entries: []*domain.FinanceEntry{
			{UserID: "user-1", AmountCents: 150000, Kind: domain.FinanceIncome},
			{UserID: "user-1", AmountCents: 4200, Kind: domain.FinanceExpense},
		}}

		svc := services.NewStatsService(trackables, logs, mood, focus, finance, newMockUserRepo(utcUser(t, "user-1"))).
			WithNow(func() time.Time { return now })
		overview, err := svc.WeeklyOverview(context.Background(), "user-1", "2024-06-15")
		assert.NoError(t, err)

		assert.Equal(t, "2024-06-10", overview.StartDate)
		assert.Equal(t, "2024-06-16", overview.EndDate)
		assert.Equal(t, 1, overview.ActiveTrackables, "archived rows do not count")
		assert.Equal(t, 2, overview.TotalCompletions)
		assert.Equal(t, []int{1, 0, 1, 0, 0, 0, 0}, overview.CompletionsByDay)
		assert.Equal(t, 7.0, overview.AverageMood)
		assert.Equal(t, 75, overview.FocusMinutes)
		assert.Equal(t, int64(150000), overview.IncomeCents)
		assert.Equal(t, int64(4200), overview.ExpenseCents)
	})

	t.Run("Failing sub-reads degrade to zero instead of failing the page", func(t *testing.T) {
		boom := errors.New("connection refused")

		svc := services.NewStatsService(
			repository.NewInMemoryTrackableRepository(),
			repository.NewInMemoryLogRepository(),
			&mockMoodRepo{err: boom},
			&mockFocusRepo{err: boom},
			&mockFinanceRepo{err: boom},
			newMockUserRepo(utcUser(t, "user-1")),
		).WithNow(func() time.Time { return now })

		overview, err := svc.WeeklyOverview(context.Background(), "user-1", "2024-06-15")
		assert.NoError(t, err)
		assert.Equal(t, 0.0, overview.AverageMood)
		assert.Equal(t, 0, overview.FocusMinutes)
		assert.Equal(t, int64(0), overview.IncomeCents)
		assert.Equal(t, "2024-06-10", overview.StartDate, "week bounds survive regardless")
	})

	t.Run("The anchor resolves in the user's timezone", func(t *testing.T) {
		if _, err := time.LoadLocation("Pacific/Auckland"); err != nil {
			t.Skip("tzdata unavailable")
		}

		user, err := domain.NewUser("user-nz", "nz@example.com", "Pacific/Auckland")
		assert.NoError(t, err)

		// Sunday 13:00 UTC is already Monday in Auckland, so the user's
		// "this week" starts a week later than the server's.
		sundayUTC := time.Date(2024, 6, 16, 13, 0, 0, 0, time.UTC)

		svc := services.NewStatsService(
			repository.NewInMemoryTrackableRepository(),
			repository.NewInMemoryLogRepository(),
			&mockMoodRepo{},
			&mockFocusRepo{},
			&mockFinanceRepo{},
			newMockUserRepo(user),
		).WithNow(func() time.Time { return sundayUTC })

		overview, err := svc.WeeklyOverview(context.Background(), "user-nz", "")
		assert.NoError(t, err)
		assert.Equal(t, "2024-06-17", overview.StartDate)
		assert.Equal(t, "2024-06-23", overview.EndDate)
	})

	t.Run("Error: unknown user", func(t *testing.T) {
		svc := services.NewStatsService(
			repository.NewInMemoryTrackableRepository(),
			repository.NewInMemoryLogRepository(),
			&mockMoodRepo{},
			&mockFocusRepo{},
			&mockFinanceRepo{},
			newMockUserRepo(),
		)

		_, err := svc.WeeklyOverview(context.Background(), "ghost", "")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Error: malformed anchor date", func(t *testing.T) {
		svc := services.NewStatsService(
			repository.NewInMemoryTrackableRepository(),
			repository.NewInMemoryLogRepository(),
			&mockMoodRepo{},
			&mockFocusRepo{},
			&mockFinanceRepo{},
			newMockUserRepo(utcUser(t, "user-1")),
		)

		_, err := svc.WeeklyOverview(context.Background(), "user-1", "junk")
		assert.Error(t, err)
	})
}
