package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidLogAction = errors.New("invalid log action")

const (
	ActionIncremented = "incremented"
	ActionDecremented = "decremented"
	ActionCompleted   = "completed"
	ActionReset       = "reset"
)

// TrackableLog is an immutable audit record of a mutation on a trackable.
// Rows are only ever inserted; streak computation is the sole reader.
type TrackableLog struct {
	ID          string `json:"id" db:"id"`
	TrackableID string `json:"trackable_id" db:"trackable_id"`
	UserID      string `json:"user_id" db:"user_id"`

	Action        string `json:"action" db:"action"`
	PreviousValue int    `json:"previous_value" db:"previous_value"`
	NewValue      int    `json:"new_value" db:"new_value"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewTrackableLog(trackableID, userID, action string, previous, newValue int) *TrackableLog {
	return &TrackableLog{
		TrackableID:   trackableID,
		UserID:        userID,
		Action:        action,
		PreviousValue: previous,
		NewValue:      newValue,
		CreatedAt:     time.Now().UTC(),
	}
}

func (l *TrackableLog) Validate() error {
	if strings.TrimSpace(l.TrackableID) == "" {
		return errors.New("trackable_id is required")
	}
	if strings.TrimSpace(l.UserID) == "" {
		return errors.New("user_id is required")
	}
	switch l.Action {
	case ActionIncremented, ActionDecremented, ActionCompleted, ActionReset:
	default:
		return ErrInvalidLogAction
	}
	return nil
}
