package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

// PostgresLogRepository is append-only: audit rows are never updated or
// deleted once written.
type PostgresLogRepository struct {
	db *sqlx.DB
}

func NewPostgresLogRepository(db *sqlx.DB) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

func (r *PostgresLogRepository) Create(ctx context.Context, entry *domain.TrackableLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO trackable_logs (
			id, trackable_id, user_id, action,
			previous_value, new_value, created_at
		) VALUES (
			:id, :trackable_id, :user_id, :action,
			:previous_value, :new_value, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return errors.New("referenced trackable or user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresLogRepository) ListByTrackableID(ctx context.Context, trackableID, action string) ([]*domain.TrackableLog, error) {
	logs := []*domain.TrackableLog{}

	query := `
		SELECT * FROM trackable_logs
		WHERE trackable_id = $1
		  AND ($2 = '' OR action = $2)
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &logs, query, trackableID, action); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresLogRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.TrackableLog, error) {
	logs := []*domain.TrackableLog{}

	query := `
		SELECT * FROM trackable_logs
		WHERE user_id = $1
		  AND created_at >= $2
		  AND created_at <= $3
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &logs, query, userID, from, to); err != nil {
		return nil, err
	}
	return logs, nil
}
