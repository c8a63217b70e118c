package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTrackableTitleEmpty    = errors.New("trackable title cannot be empty")
	ErrTrackableTitleTooLong  = errors.New("trackable title is too long (max 100 chars)")
	ErrTrackableInvalidUserID = errors.New("invalid user id")
	ErrInvalidTrackableType   = errors.New("invalid trackable type (must be daily_habit, one_time, or progress)")
	ErrInvalidStatus          = errors.New("invalid status (must be active, completed, or archived)")
	ErrInvalidTarget          = errors.New("target value must be positive")
	ErrInvalidResetFrequency  = errors.New("invalid reset frequency (must be daily, weekly, or none)")
	ErrInvalidPriority        = errors.New("invalid priority (must be low, medium, or high)")
	ErrInvalidScheduledTime   = errors.New("invalid scheduled time format (must be HH:MM 24h)")
	ErrInvalidRecurrenceRule  = errors.New("invalid recurrence rule")
	ErrTrackableArchived      = errors.New("cannot update an archived trackable")
	ErrNegativeValue          = errors.New("current value cannot be negative")
)

var scheduledTimeRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	TypeDailyHabit = "daily_habit"
	TypeOneTime    = "one_time"
	TypeProgress   = "progress"

	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"

	ResetDaily  = "daily"
	ResetWeekly = "weekly"
	ResetNone   = "none"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"

	MaxTitleLen = 100
)

// RecurrenceRule describes how a recurring trackable repeats.
// DaysOfWeek uses 0=Sunday..6=Saturday, matching time.Weekday.
type RecurrenceRule struct {
	Frequency  string     `json:"frequency"`
	Interval   int        `json:"interval,omitempty"`
	DaysOfWeek []int      `json:"days_of_week,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

func (r *RecurrenceRule) Validate() error {
	switch r.Frequency {
	case FreqDaily, FreqWeekly, FreqMonthly:
	default:
		return ErrInvalidRecurrenceRule
	}
	if r.Interval < 0 {
		return ErrInvalidRecurrenceRule
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return ErrInvalidRecurrenceRule
		}
	}
	return nil
}

// Trackable is a user-defined habit, one-time task, or progress counter.
//
// Completion state is type-dependent: a daily habit is "done" only when
// LastCompletedAt falls on the current calendar day, a one-time task is done
// when Status is completed, and a progress counter is done when CurrentValue
// has reached TargetValue on the current calendar day.
type Trackable struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Title  string `json:"title" db:"title"`
	Type   string `json:"type" db:"type"`
	Status string `json:"status" db:"status"`

	CurrentValue    int        `json:"current_value" db:"current_value"`
	TargetValue     *int       `json:"target_value,omitempty" db:"target_value"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty" db:"last_completed_at"`
	ResetFrequency  string     `json:"reset_frequency" db:"reset_frequency"`
	Priority        *string    `json:"priority,omitempty" db:"priority"`

	ScheduledTime *string         `json:"scheduled_time,omitempty" db:"scheduled_time"`
	SelectedDays  []string        `json:"selected_days,omitempty" db:"selected_days"`
	StartDate     *time.Time      `json:"start_date,omitempty" db:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty" db:"end_date"`
	ScheduledDate *time.Time      `json:"scheduled_date,omitempty" db:"scheduled_date"`
	IsRecurring   bool            `json:"is_recurring" db:"is_recurring"`
	Recurrence    *RecurrenceRule `json:"recurrence_rule,omitempty" db:"recurrence_rule"`

	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTrackableTitleEmpty
	}
	if len(trimmed) > MaxTitleLen {
		return "", ErrTrackableTitleTooLong
	}
	return trimmed, nil
}

func NewTrackable(userID, title, tType string) (*Trackable, error) {
	if userID == "" {
		return nil, ErrTrackableInvalidUserID
	}

	cleanTitle, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	switch tType {
	case TypeDailyHabit, TypeOneTime, TypeProgress:
	default:
		return nil, ErrInvalidTrackableType
	}

	now := time.Now().UTC()

	return &Trackable{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          cleanTitle,
		Type:           tType,
		Status:         StatusActive,
		CurrentValue:   0,
		ResetFrequency: ResetNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Update applies the mutable non-scheduling fields. Pointer arguments left
// nil keep the current value; SetSchedule handles the scheduling fields.
func (t *Trackable) Update(title string, priority *string, scheduledTime *string, resetFrequency string, targetValue *int) error {
	if t.Status == StatusArchived {
		return ErrTrackableArchived
	}

	cleanTitle, err := validateTitle(title)
	if err != nil {
		return err
	}

	if priority != nil {
		switch *priority {
		case PriorityLow, PriorityMedium, PriorityHigh:
		default:
			return ErrInvalidPriority
		}
	}

	if scheduledTime != nil && !scheduledTimeRegex.MatchString(*scheduledTime) {
		return ErrInvalidScheduledTime
	}

	switch resetFrequency {
	case ResetDaily, ResetWeekly, ResetNone:
	case "":
		resetFrequency = t.ResetFrequency
	default:
		return ErrInvalidResetFrequency
	}

	if targetValue != nil && *targetValue < 1 {
		return ErrInvalidTarget
	}

	t.Title = cleanTitle
	t.Priority = priority
	t.ScheduledTime = scheduledTime
	t.ResetFrequency = resetFrequency
	t.TargetValue = targetValue
	t.UpdatedAt = time.Now().UTC()

	return nil
}

// SetSchedule replaces the scheduling fields wholesale. A nil rule with
// isRecurring false turns recurrence off; selectedDays is the legacy
// weekday-name list kept for items created before recurrence rules existed.
func (t *Trackable) SetSchedule(startDate, endDate, scheduledDate *time.Time, isRecurring bool, rule *RecurrenceRule, selectedDays []string) error {
	if t.Status == StatusArchived {
		return ErrTrackableArchived
	}

	if rule != nil {
		if err := rule.Validate(); err != nil {
			return err
		}
	}

	t.StartDate = startDate
	t.EndDate = endDate
	t.ScheduledDate = scheduledDate
	t.IsRecurring = isRecurring
	t.Recurrence = rule
	t.SelectedDays = selectedDays
	t.UpdatedAt = time.Now().UTC()

	return nil
}

// ReachedTarget reports whether a progress counter has hit its target.
// Always false when no target is set.
func (t *Trackable) ReachedTarget() bool {
	return t.TargetValue != nil && t.CurrentValue >= *t.TargetValue
}

func (t *Trackable) Archive() {
	if t.Status == StatusArchived {
		return
	}
	t.Status = StatusArchived
	t.UpdatedAt = time.Now().UTC()
}

func (t *Trackable) Restore() {
	if t.Status != StatusArchived {
		return
	}
	t.Status = StatusActive
	t.UpdatedAt = time.Now().UTC()
}

func (t *Trackable) UpdateStreak(current, longest int) {
	t.CurrentStreak = current
	t.LongestStreak = longest
	t.UpdatedAt = time.Now().UTC()
}
