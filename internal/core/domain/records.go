package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRecordDate  = errors.New("invalid record date (expected YYYY-MM-DD)")
	ErrInvalidMoodScore   = errors.New("mood and anxiety scores must be between 1 and 10")
	ErrInvalidAmount      = errors.New("amount must be non-zero")
	ErrInvalidFinanceKind = errors.New("invalid finance kind (must be income or expense)")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidMeasurement = errors.New("measurements cannot be negative")
)

const (
	FinanceIncome  = "income"
	FinanceExpense = "expense"

	DayFormat = "2006-01-02"
)

func validDay(s string) bool {
	_, err := time.Parse(DayFormat, s)
	return err == nil
}

// HealthMetric is one day's physical-health readings. All measurements are
// optional; a row exists as soon as the user records anything for the day.
type HealthMetric struct {
	ID         string   `json:"id" db:"id"`
	UserID     string   `json:"user_id" db:"user_id"`
	MetricDate string   `json:"metric_date" db:"metric_date"`
	WeightKg   *float64 `json:"weight_kg,omitempty" db:"weight_kg"`
	SleepHours *float64 `json:"sleep_hours,omitempty" db:"sleep_hours"`
	WaterMl    int      `json:"water_ml" db:"water_ml"`
	Steps      int      `json:"steps" db:"steps"`
	Notes      string   `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (m *HealthMetric) Validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return ErrTrackableInvalidUserID
	}
	if !validDay(m.MetricDate) {
		return ErrInvalidRecordDate
	}
	if m.WaterMl < 0 || m.Steps < 0 {
		return ErrInvalidMeasurement
	}
	if (m.WeightKg != nil && *m.WeightKg < 0) || (m.SleepHours != nil && *m.SleepHours < 0) {
		return ErrInvalidMeasurement
	}
	return nil
}

// MoodLog is one day's mental-health check-in.
type MoodLog struct {
	ID      string `json:"id" db:"id"`
	UserID  string `json:"user_id" db:"user_id"`
	LogDate string `json:"log_date" db:"log_date"`
	Mood    int    `json:"mood" db:"mood"`
	Anxiety int    `json:"anxiety" db:"anxiety"`
	Notes   string `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (m *MoodLog) Validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return ErrTrackableInvalidUserID
	}
	if !validDay(m.LogDate) {
		return ErrInvalidRecordDate
	}
	if m.Mood < 1 || m.Mood > 10 || m.Anxiety < 1 || m.Anxiety > 10 {
		return ErrInvalidMoodScore
	}
	return nil
}

// FocusSession is a finished productivity session.
type FocusSession struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	StartedAt   time.Time `json:"started_at" db:"started_at"`
	DurationMin int       `json:"duration_min" db:"duration_min"`
	Category    string    `json:"category" db:"category"`
	Notes       string    `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s *FocusSession) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrTrackableInvalidUserID
	}
	if s.StartedAt.IsZero() {
		return errors.New("started_at is required")
	}
	if s.DurationMin < 1 {
		return ErrInvalidDuration
	}
	return nil
}

// FinanceEntry is a single income or expense line. Amounts are stored in
// cents to avoid floating-point money.
type FinanceEntry struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	EntryDate   string `json:"entry_date" db:"entry_date"`
	AmountCents int64  `json:"amount_cents" db:"amount_cents"`
	Kind        string `json:"kind" db:"kind"`
	Category    string `json:"category" db:"category"`
	Notes       string `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (e *FinanceEntry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrTrackableInvalidUserID
	}
	if !validDay(e.EntryDate) {
		return ErrInvalidRecordDate
	}
	if e.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	switch e.Kind {
	case FinanceIncome, FinanceExpense:
	default:
		return ErrInvalidFinanceKind
	}
	return nil
}

// DailySummary is the per-day wrap-up record. OngoingConditions holds
// condition names that tend to persist across days; creating a new day's
// summary may copy them from the previous day, but only when the user
// explicitly confirms the carry-over.
type DailySummary struct {
	ID                string   `json:"id" db:"id"`
	UserID            string   `json:"user_id" db:"user_id"`
	SummaryDate       string   `json:"summary_date" db:"summary_date"`
	OngoingConditions []string `json:"ongoing_conditions" db:"ongoing_conditions"`
	Notes             string   `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (s *DailySummary) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrTrackableInvalidUserID
	}
	if !validDay(s.SummaryDate) {
		return ErrInvalidRecordDate
	}
	return nil
}
