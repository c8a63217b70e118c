package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmaddalena/lifelog/internal/adapters/repository"
	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/schedule"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

// mockUserRepo serves a fixed set of users.
type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := m.users[u.ID]; ok {
		return domain.ErrEmailAlreadyExists
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func utcUser(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(id, id+"@example.com", "UTC")
	assert.NoError(t, err)
	return u
}

type trackableFixture struct {
	service *services.TrackableService
	repo    *repository.InMemoryTrackableRepository
	logs    *repository.InMemoryLogRepository
}

func newTrackableFixture(t *testing.T, now time.Time, users ...*domain.User) trackableFixture {
	t.Helper()

	repo := repository.NewInMemoryTrackableRepository()
	logs := repository.NewInMemoryLogRepository()
	if len(users) == 0 {
		users = []*domain.User{utcUser(t, "user-1")}
	}

	svc := services.NewTrackableService(repo, logs, newMockUserRepo(users...), nil).
		WithNow(func() time.Time { return now })

	return trackableFixture{service: svc, repo: repo, logs: logs}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestTrackableServiceCreate(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		f := newTrackableFixture(t, now)

		created, err := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID:      "user-1",
			Title:       "Read 20 pages",
			Type:        domain.TypeProgress,
			TargetValue: intPtr(20),
			ResetFreq:   domain.ResetDaily,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		stored, err := f.repo.GetByID(context.Background(), created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Read 20 pages", stored.Title)
		assert.Equal(t, 20, *stored.TargetValue)
	})

	t.Run("Error: validation failure is not persisted", func(t *testing.T) {
		f := newTrackableFixture(t, now)

		_, err := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID: "user-1",
			Title:  "Read",
			Type:   "reminder",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTrackableType)

		all, _ := f.repo.ListByUserID(context.Background(), "user-1")
		assert.Empty(t, all)
	})
}

func TestTrackableServiceOwnership(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newTrackableFixture(t, now, utcUser(t, "user-1"), utcUser(t, "user-2"))

	created, err := f.service.Create(context.Background(), services.CreateTrackableInput{
		UserID: "user-1",
		Title:  "Meditate",
		Type:   domain.TypeDailyHabit,
	})
	assert.NoError(t, err)

	t.Run("Owner can read", func(t *testing.T) {
		got, err := f.service.GetByID(context.Background(), created.ID, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("Error: another user sees not found, not forbidden", func(t *testing.T) {
		_, err := f.service.GetByID(context.Background(), created.ID, "user-2")
		assert.ErrorIs(t, err, domain.ErrTrackableNotFound)
	})

	t.Run("Error: another user cannot delete", func(t *testing.T) {
		err := f.service.Delete(context.Background(), created.ID, "user-2")
		assert.ErrorIs(t, err, domain.ErrTrackableNotFound)

		_, err = f.repo.GetByID(context.Background(), created.ID)
		assert.NoError(t, err, "the row must survive")
	})
}

func TestTrackableServiceToggle(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Toggle on writes a completion log, toggle off does not", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		created, _ := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID: "user-1", Title: "Meditate", Type: domain.TypeDailyHabit,
		})

		toggled, err := f.service.ToggleCompletion(context.Background(), created.ID, "user-1")
		assert.NoError(t, err)
		assert.NotNil(t, toggled.LastCompletedAt)

		toggled, err = f.service.ToggleCompletion(context.Background(), created.ID, "user-1")
		assert.NoError(t, err)
		assert.Nil(t, toggled.LastCompletedAt)

		entries, _ := f.logs.ListByTrackableID(context.Background(), created.ID, domain.ActionCompleted)
		assert.Len(t, entries, 1, "only the on-transition is audited")
	})

	t.Run("Error: progress counter below target rejects toggle", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		created, _ := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID: "user-1", Title: "Pages", Type: domain.TypeProgress, TargetValue: intPtr(10),
		})

		_, err := f.service.ToggleCompletion(context.Background(), created.ID, "user-1")
		assert.Error(t, err)
	})
}

func TestTrackableServiceCounters(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	newCounter := func(t *testing.T, f trackableFixture, target int) *domain.Trackable {
		created, err := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID: "user-1", Title: "Water glasses", Type: domain.TypeProgress, TargetValue: intPtr(target),
		})
		assert.NoError(t, err)
		return created
	}

	t.Run("Increment and decrement move the value and audit each step", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		counter := newCounter(t, f, 8)

		got, err := f.service.Increment(context.Background(), counter.ID, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, got.CurrentValue)

		got, err = f.service.Decrement(context.Background(), counter.ID, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 0, got.CurrentValue)

		incs, _ := f.logs.ListByTrackableID(context.Background(), counter.ID, domain.ActionIncremented)
		decs, _ := f.logs.ListByTrackableID(context.Background(), counter.ID, domain.ActionDecremented)
		assert.Len(t, incs, 1)
		assert.Len(t, decs, 1)
	})

	t.Run("Decrement clamps at zero", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		counter := newCounter(t, f, 8)

		for i := 0; i < 3; i++ {
			got, err := f.service.Decrement(context.Background(), counter.ID, "user-1")
			assert.NoError(t, err)
			assert.Equal(t, 0, got.CurrentValue)
		}
	})

	t.Run("Crossing the target marks the day completed", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		counter := newCounter(t, f, 2)

		got, err := f.service.Increment(context.Background(), counter.ID, "user-1")
		assert.NoError(t, err)
		assert.Nil(t, got.LastCompletedAt)

		got, err = f.service.Increment(context.Background(), counter.ID, "user-1")
		assert.NoError(t, err)
		assert.NotNil(t, got.LastCompletedAt)
	})

	t.Run("Dropping below the target the same day clears the mark", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		counter := newCounter(t, f, 2)

		f.service.Increment(context.Background(), counter.ID, "user-1")
		f.service.Increment(context.Background(), counter.ID, "user-1")

		got, err := f.service.Decrement(context.Background(), counter.ID, "user-1")
		assert.NoError(t, err)
		assert.Nil(t, got.LastCompletedAt)
	})

	t.Run("Error: delta on a non-progress trackable", func(t *testing.T) {
		f := newTrackableFixture(t, now)
		habit, _ := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID: "user-1", Title: "Meditate", Type: domain.TypeDailyHabit,
		})

		_, err := f.service.Increment(context.Background(), habit.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTrackableType)
	})
}

func TestTrackableServiceDayView(t *testing.T) {
	// A Saturday morning.
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newTrackableFixture(t, now)

	saturday := []string{"saturday"}
	sunday := []string{"sunday"}

	_, err := f.service.Create(context.Background(), services.CreateTrackableInput{
		UserID: "user-1", Title: "Long run", Type: domain.TypeDailyHabit,
		ScheduledTime: strPtr("18:00"),
		Schedule:      services.ScheduleInput{SelectedDays: saturday},
	})
	assert.NoError(t, err)

	_, err = f.service.Create(context.Background(), services.CreateTrackableInput{
		UserID: "user-1", Title: "Meal prep", Type: domain.TypeDailyHabit,
		Schedule: services.ScheduleInput{SelectedDays: sunday},
	})
	assert.NoError(t, err)

	t.Run("Today's view includes only due items", func(t *testing.T) {
		buckets, err := f.service.DayView(context.Background(), "user-1", "")
		assert.NoError(t, err)
		assert.Empty(t, buckets.Completed)
		assert.Empty(t, buckets.Pending)
		assert.Len(t, buckets.Upcoming, 1)
		assert.Equal(t, "Long run", buckets.Upcoming[0].Title)
	})

	t.Run("Explicit date shifts the view", func(t *testing.T) {
		buckets, err := f.service.DayView(context.Background(), "user-1", "2024-06-16")
		assert.NoError(t, err)
		total := len(buckets.Completed) + len(buckets.Pending) + len(buckets.Upcoming)
		assert.Equal(t, 1, total)
	})

	t.Run("Error: malformed date", func(t *testing.T) {
		_, err := f.service.DayView(context.Background(), "user-1", "junk")
		assert.Error(t, err)
	})

	t.Run("Archived items never appear", func(t *testing.T) {
		created, _ := f.service.Create(context.Background(), services.CreateTrackableInput{
			UserID: "user-1", Title: "Old habit", Type: domain.TypeDailyHabit,
			Schedule: services.ScheduleInput{SelectedDays: saturday},
		})
		stored, _ := f.repo.GetByID(context.Background(), created.ID)
		stored.Archive()
		assert.NoError(t, f.repo.Update(context.Background(), stored))

		buckets, err := f.service.DayView(context.Background(), "user-1", "")
		assert.NoError(t, err)
		for _, tr := range append(append(buckets.Completed, buckets.Pending...), buckets.Upcoming...) {
			assert.NotEqual(t, "Old habit", tr.Title)
		}
	})
}

func TestTrackableServiceDayViewWestOfUTC(t *testing.T) {
	if _, err := time.LoadLocation("America/New_York"); err != nil {
		t.Skip("tzdata unavailable")
	}

	user, err := domain.NewUser("user-ny", "ny@example.com", "America/New_York")
	assert.NoError(t, err)

	// Midday UTC on the 15th, morning in New York.
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newTrackableFixture(t, now, user)

	// Dates arrive from the API as UTC midnights.
	scheduled := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	_, err = f.service.Create(context.Background(), services.CreateTrackableInput{
		UserID: "user-ny", Title: "File taxes", Type: domain.TypeOneTime,
		Schedule: services.ScheduleInput{ScheduledDate: &scheduled},
	})
	assert.NoError(t, err)

	count := func(b *schedule.DayBuckets) int {
		return len(b.Completed) + len(b.Pending) + len(b.Upcoming)
	}

	t.Run("Task appears on its scheduled date", func(t *testing.T) {
		buckets, err := f.service.DayView(context.Background(), "user-ny", "2024-06-15")
		assert.NoError(t, err)
		assert.Equal(t, 1, count(buckets))
	})

	t.Run("Task does not appear the day before", func(t *testing.T) {
		buckets, err := f.service.DayView(context.Background(), "user-ny", "2024-06-14")
		assert.NoError(t, err)
		assert.Equal(t, 0, count(buckets))
	})

	t.Run("Today resolves to the task's date in the user's timezone", func(t *testing.T) {
		buckets, err := f.service.DayView(context.Background(), "user-ny", "")
		assert.NoError(t, err)
		assert.Equal(t, 1, count(buckets))
	})
}

func TestTrackableServiceStreaks(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newTrackableFixture(t, now)

	created, _ := f.service.Create(context.Background(), services.CreateTrackableInput{
		UserID: "user-1", Title: "Meditate", Type: domain.TypeDailyHabit,
	})

	// Seed two consecutive completion days ending today.
	for _, offset := range []int{0, -1} {
		entry := domain.NewTrackableLog(created.ID, "user-1", domain.ActionCompleted, 0, 0)
		entry.CreatedAt = now.AddDate(0, 0, offset)
		assert.NoError(t, f.logs.Create(context.Background(), entry))
	}

	current, longest, err := f.service.Streaks(context.Background(), created.ID, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, longest)
}

func TestTrackableServiceDayViewTimezone(t *testing.T) {
	if _, err := time.LoadLocation("Europe/Madrid"); err != nil {
		t.Skip("tzdata unavailable")
	}

	user, err := domain.NewUser("user-tz", "tz@example.com", "Europe/Madrid")
	assert.NoError(t, err)

	// 23:30 UTC on Friday is already Saturday in Madrid.
	now := time.Date(2024, 6, 14, 23, 30, 0, 0, time.UTC)
	f := newTrackableFixture(t, now, user)

	_, err = f.service.Create(context.Background(), services.CreateTrackableInput{
		UserID: "user-tz", Title: "Saturday stretch", Type: domain.TypeDailyHabit,
		Schedule: services.ScheduleInput{SelectedDays: []string{"saturday"}},
	})
	assert.NoError(t, err)

	buckets, err := f.service.DayView(context.Background(), "user-tz", "")
	assert.NoError(t, err)
	assert.Len(t, buckets.Pending, 1, "the user's local calendar day decides what is due")
}
