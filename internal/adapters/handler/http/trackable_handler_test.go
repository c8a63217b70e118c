package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	adapterHTTP "github.com/dmaddalena/lifelog/internal/adapters/handler/http"
	"github.com/dmaddalena/lifelog/internal/adapters/handler/http/middleware"
	"github.com/dmaddalena/lifelog/internal/adapters/repository"
	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(ids ...string) *stubUserRepo {
	s := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, id := range ids {
		u, _ := domain.NewUser(id, id+"@example.com", "UTC")
		s.users[id] = u
	}
	return s
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type trackableTestEnv struct {
	router *gin.Engine
	repo   *repository.InMemoryTrackableRepository
	logs   *repository.InMemoryLogRepository
}

func setupTrackableRouter(now time.Time) trackableTestEnv {
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemoryTrackableRepository()
	logs := repository.NewInMemoryLogRepository()
	users := newStubUserRepo("user-1", "user-2")

	svc := services.NewTrackableService(repo, logs, users, nil).
		WithNow(func() time.Time { return now })
	handler := adapterHTTP.NewTrackableHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	handler.RegisterRoutes(r.Group("/api/v1"))
	return trackableTestEnv{router: r, repo: repo, logs: logs}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, path, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTrackable(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Success: 201 Created", func(t *testing.T) {
		env := setupTrackableRouter(now)

		body := `{"title": "Read 20 pages", "type": "progress", "target_value": 20, "reset_frequency": "daily"}`
		w := doJSON(t, env.router, "POST", "/api/v1/trackables", "user-1", body)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created domain.Trackable
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Read 20 pages", created.Title)
		assert.Equal(t, 20, *created.TargetValue)
	})

	t.Run("Error: 400 on unknown type", func(t *testing.T) {
		env := setupTrackableRouter(now)

		body := `{"title": "Read", "type": "reminder"}`
		w := doJSON(t, env.router, "POST", "/api/v1/trackables", "user-1", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error: 400 on missing title", func(t *testing.T) {
		env := setupTrackableRouter(now)

		w := doJSON(t, env.router, "POST", "/api/v1/trackables", "user-1", `{"type": "daily_habit"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetTrackable(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	env := setupTrackableRouter(now)

	created, err := domain.NewTrackable("user-1", "Meditate", domain.TypeDailyHabit)
	assert.NoError(t, err)
	assert.NoError(t, env.repo.Create(context.Background(), created))

	t.Run("Success: 200 for the owner", func(t *testing.T) {
		w := doJSON(t, env.router, "GET", "/api/v1/trackables/"+created.ID, "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error: 404 for another user", func(t *testing.T) {
		w := doJSON(t, env.router, "GET", "/api/v1/trackables/"+created.ID, "user-2", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error: 404 for a missing id", func(t *testing.T) {
		w := doJSON(t, env.router, "GET", "/api/v1/trackables/no-such-id", "user-1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestToggleTrackable(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Success: toggling marks today and back off", func(t *testing.T) {
		env := setupTrackableRouter(now)

		habit, _ := domain.NewTrackable("user-1", "Meditate", domain.TypeDailyHabit)
		assert.NoError(t, env.repo.Create(context.Background(), habit))

		w := doJSON(t, env.router, "POST", "/api/v1/trackables/"+habit.ID+"/toggle", "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var toggled domain.Trackable
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
		assert.NotNil(t, toggled.LastCompletedAt)

		w = doJSON(t, env.router, "POST", "/api/v1/trackables/"+habit.ID+"/toggle", "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		toggled = domain.Trackable{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
		assert.Nil(t, toggled.LastCompletedAt)
	})

	t.Run("Error: 400 when a counter has not reached its target", func(t *testing.T) {
		env := setupTrackableRouter(now)

		counter, _ := domain.NewTrackable("user-1", "Pages", domain.TypeProgress)
		target := 10
		counter.TargetValue = &target
		assert.NoError(t, env.repo.Create(context.Background(), counter))

		w := doJSON(t, env.router, "POST", "/api/v1/trackables/"+counter.ID+"/toggle", "user-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCounterEndpoints(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	env := setupTrackableRouter(now)

	counter, _ := domain.NewTrackable("user-1", "Water glasses", domain.TypeProgress)
	target := 2
	counter.TargetValue = &target
	assert.NoError(t, env.repo.Create(context.Background(), counter))

	path := "/api/v1/trackables/" + counter.ID

	t.Run("Increment moves the value", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", path+"/increment", "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var got domain.Trackable
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.CurrentValue)
	})

	t.Run("Reaching the target marks completion", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", path+"/increment", "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var got domain.Trackable
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 2, got.CurrentValue)
		assert.NotNil(t, got.LastCompletedAt)
	})

	t.Run("Decrement clamps at zero", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			w := doJSON(t, env.router, "POST", path+"/decrement", "user-1", "")
			assert.Equal(t, http.StatusOK, w.Code)
		}

		got, err := env.repo.GetByID(context.Background(), counter.ID)
		assert.NoError(t, err)
		assert.Equal(t, 0, got.CurrentValue)
	})

	t.Run("Error: 400 on a non-counter", func(t *testing.T) {
		habit, _ := domain.NewTrackable("user-1", "Meditate", domain.TypeDailyHabit)
		assert.NoError(t, env.repo.Create(context.Background(), habit))

		w := doJSON(t, env.router, "POST", "/api/v1/trackables/"+habit.ID+"/increment", "user-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDayViewEndpoint(t *testing.T) {
	// A Saturday.
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	env := setupTrackableRouter(now)

	habit, _ := domain.NewTrackable("user-1", "Long run", domain.TypeDailyHabit)
	habit.SelectedDays = []string{"saturday"}
	assert.NoError(t, env.repo.Create(context.Background(), habit))

	t.Run("Success: due item shows up bucketed", func(t *testing.T) {
		w := doJSON(t, env.router, "GET", "/api/v1/day", "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var buckets struct {
			Completed []domain.Trackable `json:"completed"`
			Pending   []domain.Trackable `json:"pending"`
			Upcoming  []domain.Trackable `json:"upcoming"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &buckets))
		assert.Len(t, buckets.Pending, 1)
		assert.Equal(t, "Long run", buckets.Pending[0].Title)
	})

	t.Run("Success: off day is empty", func(t *testing.T) {
		w := doJSON(t, env.router, "GET", "/api/v1/day?date=2024-06-16", "user-1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"pending":[]`)
	})

	t.Run("Error: 400 on a malformed date", func(t *testing.T) {
		w := doJSON(t, env.router, "GET", "/api/v1/day?date=junk", "user-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteTrackable(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	env := setupTrackableRouter(now)

	habit, _ := domain.NewTrackable("user-1", "Meditate", domain.TypeDailyHabit)
	assert.NoError(t, env.repo.Create(context.Background(), habit))

	t.Run("Success: 204 and the row is gone", func(t *testing.T) {
		w := doJSON(t, env.router, "DELETE", "/api/v1/trackables/"+habit.ID, "user-1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		_, err := env.repo.GetByID(context.Background(), habit.ID)
		assert.ErrorIs(t, err, domain.ErrTrackableNotFound)
	})

	t.Run("Error: 404 on the second delete", func(t *testing.T) {
		w := doJSON(t, env.router, "DELETE", "/api/v1/trackables/"+habit.ID, "user-1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
