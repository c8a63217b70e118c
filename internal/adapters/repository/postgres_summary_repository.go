package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dmaddalena/lifelog/internal/core/domain"
)

type PostgresSummaryRepository struct {
	db *sqlx.DB
}

func NewPostgresSummaryRepository(db *sqlx.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

func (r *PostgresSummaryRepository) Upsert(ctx context.Context, s *domain.DailySummary) error {
	query := `
		INSERT INTO daily_summaries (
			id, user_id, summary_date, ongoing_conditions, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, summary_date) DO UPDATE SET
			ongoing_conditions = EXCLUDED.ongoing_conditions,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.SummaryDate, pq.StringArray(s.OngoingConditions),
		s.Notes, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *PostgresSummaryRepository) GetByDate(ctx context.Context, userID, date string) (*domain.DailySummary, error) {
	query := `
		SELECT id, user_id, summary_date, ongoing_conditions, notes, created_at, updated_at
		FROM daily_summaries
		WHERE user_id = $1 AND summary_date = $2`

	var s domain.DailySummary
	var conditions pq.StringArray

	err := r.db.QueryRowContext(ctx, query, userID, date).Scan(
		&s.ID, &s.UserID, &s.SummaryDate, &conditions, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, err
	}

	s.OngoingConditions = conditions
	return &s, nil
}
