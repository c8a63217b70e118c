package workers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmaddalena/lifelog/internal/core/workers"
)

func TestCalculateStreaks(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	day := func(offset int) time.Time {
		return now.AddDate(0, 0, offset)
	}

	t.Run("No completions", func(t *testing.T) {
		current, longest := workers.CalculateStreaks(nil, now)
		assert.Equal(t, 0, current)
		assert.Equal(t, 0, longest)
	})

	t.Run("Single completion today", func(t *testing.T) {
		current, longest := workers.CalculateStreaks([]time.Time{now}, now)
		assert.Equal(t, 1, current)
		assert.Equal(t, 1, longest)
	})

	t.Run("Three consecutive days ending today", func(t *testing.T) {
		current, longest := workers.CalculateStreaks([]time.Time{day(0), day(-1), day(-2)}, now)
		assert.Equal(t, 3, current)
		assert.Equal(t, 3, longest)
	})

	t.Run("Streak ending yesterday still counts as current", func(t *testing.T) {
		current, longest := workers.CalculateStreaks([]time.Time{day(-1), day(-2)}, now)
		assert.Equal(t, 2, current)
		assert.Equal(t, 2, longest)
	})

	t.Run("Streak broken two days ago is not current", func(t *testing.T) {
		current, longest := workers.CalculateStreaks([]time.Time{day(-2), day(-3), day(-4)}, now)
		assert.Equal(t, 0, current)
		assert.Equal(t, 3, longest)
	})

	t.Run("Longest run is found in the middle of history", func(t *testing.T) {
		dates := []time.Time{
			day(0),
			day(-5), day(-6), day(-7), day(-8),
			day(-12),
		}
		current, longest := workers.CalculateStreaks(dates, now)
		assert.Equal(t, 1, current)
		assert.Equal(t, 4, longest)
	})

	t.Run("Multiple completions on the same day collapse to one", func(t *testing.T) {
		dates := []time.Time{
			day(0), day(0).Add(2 * time.Hour), day(0).Add(5 * time.Hour),
			day(-1),
		}
		current, longest := workers.CalculateStreaks(dates, now)
		assert.Equal(t, 2, current)
		assert.Equal(t, 2, longest)
	})

	t.Run("Unordered input", func(t *testing.T) {
		current, longest := workers.CalculateStreaks([]time.Time{day(-2), day(0), day(-1)}, now)
		assert.Equal(t, 3, current)
		assert.Equal(t, 3, longest)
	})
}
