package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

var _ domain.GoalLogRepository = (*SQLGoalLogRepository)(nil)

// SQLGoalLogRepository reads goal_time_type from the owning goal, never from the log row.
type SQLGoalLogRepository struct {
	db *sqlx.DB
}

func NewSQLGoalLogRepository(db *sqlx.DB) *SQLGoalLogRepository {
	return &SQLGoalLogRepository{db: db}
}

const logSelect = `
	SELECT l.id, l.goal_id, l.user_id, l.type, g.time_type AS goal_time_type, l.unit_amount, l.created_at
	FROM goal_logs l
	JOIN goals g ON g.id = l.goal_id`

func (r *SQLGoalLogRepository) Create(ctx context.Context, l *domain.GoalLog) error {
	query := `
		INSERT INTO goal_logs (id, goal_id, user_id, type, unit_amount, created_at)
		VALUES (:id, :goal_id, :user_id, :type, :unit_amount, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		mapped := mapConstraintError(err, domain.ErrGoalNotFound, domain.ErrInvalidLog)
		if errors.Is(mapped, domain.ErrGoalNotFound) || errors.Is(mapped, domain.ErrInvalidLog) {
			return mapped
		}
		return fmt.Errorf("failed to insert goal log: %w", err)
	}
	return nil
}

func (r *SQLGoalLogRepository) GetByID(ctx context.Context, id string) (*domain.GoalLog, error) {
	var l domain.GoalLog
	if err := r.db.GetContext(ctx, &l, logSelect+` WHERE l.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	normalizeLog(&l)
	return &l, nil
}

func (r *SQLGoalLogRepository) Delete(ctx context.Context, id string, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goal_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *SQLGoalLogRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalLog, error) {
	logs := []*domain.GoalLog{}
	query := logSelect + `
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, l.id ASC`

	if err := r.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	for _, l := range logs {
		normalizeLog(l)
	}
	return logs, nil
}

func (r *SQLGoalLogRepository) ListByUserIDInRange(ctx context.Context, userID string, goalType domain.GoalType, from, to time.Time) ([]*domain.GoalLog, error) {
	logs := []*domain.GoalLog{}
	args := []interface{}{userID, from.UTC(), to.UTC()}

	query := logSelect + `
		WHERE l.user_id = $1
		  AND l.created_at >= $2
		  AND l.created_at < $3`
	if goalType != "" {
		query += ` AND l.type = $4`
		args = append(args, string(goalType))
	}
	query += ` ORDER BY l.created_at DESC, l.id ASC`

	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("range query error: %w", err)
	}

	for _, l := range logs {
		normalizeLog(l)
	}
	return logs, nil
}
