package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

// The record repositories share one shape: upsert-or-insert keyed by user
// and day, range selects over the day column, and owner-scoped deletes.

type PostgresHealthMetricRepository struct {
	db *sqlx.DB
}

func NewPostgresHealthMetricRepository(db *sqlx.DB) *PostgresHealthMetricRepository {
	return &PostgresHealthMetricRepository{db: db}
}

func (r *PostgresHealthMetricRepository) Upsert(ctx context.Context, m *domain.HealthMetric) error {
	query := `
		INSERT INTO health_metrics (
			id, user_id, metric_date, weight_kg, sleep_hours, water_ml, steps, notes,
			created_at, updated_at
		) VALUES (
			:id, :user_id, :metric_date, :weight_kg, :sleep_hours, :water_ml, :steps, :notes,
			:created_at, :updated_at
		)
		ON CONFLICT (user_id, metric_date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			sleep_hours = EXCLUDED.sleep_hours,
			water_ml = EXCLUDED.water_ml,
			steps = EXCLUDED.steps,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, m)
	return err
}

func (r *PostgresHealthMetricRepository) GetByDate(ctx context.Context, userID, date string) (*domain.HealthMetric, error) {
	var m domain.HealthMetric
	query := `SELECT * FROM health_metrics WHERE user_id = $1 AND metric_date = $2`

	if err := r.db.GetContext(ctx, &m, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresHealthMetricRepository) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.HealthMetric, error) {
	metrics := []*domain.HealthMetric{}
	query := `
		SELECT * FROM health_metrics
		WHERE user_id = $1 AND metric_date >= $2 AND metric_date <= $3
		ORDER BY metric_date DESC`

	if err := r.db.SelectContext(ctx, &metrics, query, userID, from, to); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *PostgresHealthMetricRepository) Delete(ctx context.Context, id, userID string) error {
	return deleteOwned(ctx, r.db, "health_metrics", id, userID)
}

type PostgresMoodLogRepository struct {
	db *sqlx.DB
}

func NewPostgresMoodLogRepository(db *sqlx.DB) *PostgresMoodLogRepository {
	return &PostgresMoodLogRepository{db: db}
}

func (r *PostgresMoodLogRepository) Upsert(ctx context.Context, m *domain.MoodLog) error {
	query := `
		INSERT INTO mood_logs (
			id, user_id, log_date, mood, anxiety, notes, created_at, updated_at
		) VALUES (
			:id, :user_id, :log_date, :mood, :anxiety, :notes, :created_at, :updated_at
		)
		ON CONFLICT (user_id, log_date) DO UPDATE SET
			mood = EXCLUDED.mood,
			anxiety = EXCLUDED.anxiety,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, m)
	return err
}

func (r *PostgresMoodLogRepository) GetByDate(ctx context.Context, userID, date string) (*domain.MoodLog, error) {
	var m domain.MoodLog
	query := `SELECT * FROM mood_logs WHERE user_id = $1 AND log_date = $2`

	if err := r.db.GetContext(ctx, &m, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresMoodLogRepository) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.MoodLog, error) {
	logs := []*domain.MoodLog{}
	query := `
		SELECT * FROM mood_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3
		ORDER BY log_date DESC`

	if err := r.db.SelectContext(ctx, &logs, query, userID, from, to); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresMoodLogRepository) Delete(ctx context.Context, id, userID string) error {
	return deleteOwned(ctx, r.db, "mood_logs", id, userID)
}

type PostgresFocusSessionRepository struct {
	db *sqlx.DB
}

func NewPostgresFocusSessionRepository(db *sqlx.DB) *PostgresFocusSessionRepository {
	return &PostgresFocusSessionRepository{db: db}
}

func (r *PostgresFocusSessionRepository) Create(ctx context.Context, s *domain.FocusSession) error {
	query := `
		INSERT INTO focus_sessions (
			id, user_id, started_at, duration_min, category, notes, created_at
		) VALUES (
			:id, :user_id, :started_at, :duration_min, :category, :notes, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, s)
	return err
}

func (r *PostgresFocusSessionRepository) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.FocusSession, error) {
	sessions := []*domain.FocusSession{}
	query := `
		SELECT * FROM focus_sessions
		WHERE user_id = $1
		  AND started_at >= $2::date
		  AND started_at < ($3::date + INTERVAL '1 day')
		ORDER BY started_at DESC`

	if err := r.db.SelectContext(ctx, &sessions, query, userID, from, to); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PostgresFocusSessionRepository) Delete(ctx context.Context, id, userID string) error {
	return deleteOwned(ctx, r.db, "focus_sessions", id, userID)
}

type PostgresFinanceEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresFinanceEntryRepository(db *sqlx.DB) *PostgresFinanceEntryRepository {
	return &PostgresFinanceEntryRepository{db: db}
}

func (r *PostgresFinanceEntryRepository) Create(ctx context.Context, e *domain.FinanceEntry) error {
	query := `
		INSERT INTO finance_entries (
			id, user_id, entry_date, amount_cents, kind, category, notes, created_at
		) VALUES (
			:id, :user_id, :entry_date, :amount_cents, :kind, :category, :notes, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, e)
	return err
}

func (r *PostgresFinanceEntryRepository) ListByRange(ctx context.Context, userID, from, to string) ([]*domain.FinanceEntry, error) {
	entries := []*domain.FinanceEntry{}
	query := `
		SELECT * FROM finance_entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &entries, query, userID, from, to); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresFinanceEntryRepository) Delete(ctx context.Context, id, userID string) error {
	return deleteOwned(ctx, r.db, "finance_entries", id, userID)
}

func deleteOwned(ctx context.Context, db *sqlx.DB, table, id, userID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
