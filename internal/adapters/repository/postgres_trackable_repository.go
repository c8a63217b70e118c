package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

type PostgresTrackableRepository struct {
	db *sqlx.DB
}

func NewPostgresTrackableRepository(db *sqlx.DB) *PostgresTrackableRepository {
	return &PostgresTrackableRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

const trackableColumns = `
	id, user_id, title, type, status,
	current_value, target_value, last_completed_at, reset_frequency, priority,
	scheduled_time, selected_days, start_date, end_date, scheduled_date,
	is_recurring, recurrence_rule,
	current_streak, longest_streak, created_at, updated_at`

func (r *PostgresTrackableRepository) scanRow(row scannable) (*domain.Trackable, error) {
	var t domain.Trackable
	var selectedDays pq.StringArray
	var ruleJSON []byte

	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Type, &t.Status,
		&t.CurrentValue, &t.TargetValue, &t.LastCompletedAt, &t.ResetFrequency, &t.Priority,
		&t.ScheduledTime, &selectedDays, &t.StartDate, &t.EndDate, &t.ScheduledDate,
		&t.IsRecurring, &ruleJSON,
		&t.CurrentStreak, &t.LongestStreak, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.SelectedDays = selectedDays

	if len(ruleJSON) > 0 {
		var rule domain.RecurrenceRule
		if err := json.Unmarshal(ruleJSON, &rule); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recurrence rule: %w", err)
		}
		t.Recurrence = &rule
	}

	return &t, nil
}

func marshalRule(rule *domain.RecurrenceRule) ([]byte, error) {
	if rule == nil {
		return nil, nil
	}
	return json.Marshal(rule)
}

func (r *PostgresTrackableRepository) Create(ctx context.Context, t *domain.Trackable) error {
	ruleJSON, err := marshalRule(t.Recurrence)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence rule: %w", err)
	}

	query := `
        INSERT INTO trackables (
            id, user_id, title, type, status,
            current_value, target_value, last_completed_at, reset_frequency, priority,
            scheduled_time, selected_days, start_date, end_date, scheduled_date,
            is_recurring, recurrence_rule,
            current_streak, longest_streak, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15,
            $16, $17,
            0, 0, $18, $19
        )`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Type, t.Status,
		t.CurrentValue, t.TargetValue, t.LastCompletedAt, t.ResetFrequency, t.Priority,
		t.ScheduledTime, pq.StringArray(t.SelectedDays), t.StartDate, t.EndDate, t.ScheduledDate,
		t.IsRecurring, ruleJSON,
		t.CreatedAt, t.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return fmt.Errorf("failed to insert trackable: %w", err)
	}

	return nil
}

func (r *PostgresTrackableRepository) GetByID(ctx context.Context, id string) (*domain.Trackable, error) {
	query := `SELECT` + trackableColumns + ` FROM trackables WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	t, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTrackableNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return t, nil
}

func (r *PostgresTrackableRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Trackable, error) {
	query := `SELECT` + trackableColumns + `
        FROM trackables
        WHERE user_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var trackables []*domain.Trackable

	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		trackables = append(trackables, t)
	}

	return trackables, rows.Err()
}

func (r *PostgresTrackableRepository) Update(ctx context.Context, t *domain.Trackable) error {
	ruleJSON, err := marshalRule(t.Recurrence)
	if err != nil {
		return err
	}

	query := `
        UPDATE trackables SET
            title=$1, status=$2, target_value=$3, reset_frequency=$4, priority=$5,
            scheduled_time=$6, selected_days=$7, start_date=$8, end_date=$9, scheduled_date=$10,
            is_recurring=$11, recurrence_rule=$12,
            updated_at=NOW()
        WHERE id=$13`

	res, err := r.db.ExecContext(ctx, query,
		t.Title, t.Status, t.TargetValue, t.ResetFrequency, t.Priority,
		t.ScheduledTime, pq.StringArray(t.SelectedDays), t.StartDate, t.EndDate, t.ScheduledDate,
		t.IsRecurring, ruleJSON,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTrackableNotFound
	}

	return nil
}

// Delete removes the row. Trackables are hard-deleted; the audit logs keep
// their own rows and simply stop being reachable through the trackable.
func (r *PostgresTrackableRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trackables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTrackableNotFound
	}

	return nil
}

// ApplyDelta moves the counter in one statement so concurrent sessions
// cannot lose an update, clamping at zero on the way down.
func (r *PostgresTrackableRepository) ApplyDelta(ctx context.Context, id string, delta int) (previous, current int, err error) {
	// RETURNING cannot see the pre-update value, so the CTE locks the row
	// and snapshots it first.
	query := `
        WITH before AS (
            SELECT current_value FROM trackables WHERE id = $2 FOR UPDATE
        )
        UPDATE trackables
        SET current_value = GREATEST(trackables.current_value + $1, 0),
            updated_at = NOW()
        FROM before
        WHERE trackables.id = $2
        RETURNING before.current_value, trackables.current_value`

	row := r.db.QueryRowContext(ctx, query, delta, id)
	if err := row.Scan(&previous, &current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, domain.ErrTrackableNotFound
		}
		return 0, 0, fmt.Errorf("apply delta failed: %w", err)
	}

	return previous, current, nil
}

func (r *PostgresTrackableRepository) ListByResetFrequency(ctx context.Context, frequency string) ([]*domain.Trackable, error) {
	query := `SELECT` + trackableColumns + `
        FROM trackables
        WHERE reset_frequency = $1 AND type = $2 AND status != $3`

	rows, err := r.db.QueryContext(ctx, query, frequency, domain.TypeProgress, domain.StatusArchived)
	if err != nil {
		return nil, fmt.Errorf("reset list query error: %w", err)
	}
	defer rows.Close()

	var trackables []*domain.Trackable
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		trackables = append(trackables, t)
	}

	return trackables, rows.Err()
}

func (r *PostgresTrackableRepository) SetCompletion(ctx context.Context, id, status string, lastCompletedAt *time.Time) error {
	query := `
        UPDATE trackables
        SET status = $1, last_completed_at = $2, updated_at = NOW()
        WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, status, lastCompletedAt, id)
	if err != nil {
		return fmt.Errorf("set completion failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTrackableNotFound
	}

	return nil
}

func (r *PostgresTrackableRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
        UPDATE trackables
        SET current_streak = $1, longest_streak = $2, updated_at = NOW()
        WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, current, longest, id)
	if err != nil {
		return fmt.Errorf("update streaks failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTrackableNotFound
	}

	return nil
}
