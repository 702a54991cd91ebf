package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

var _ domain.GoalRepository = (*SQLGoalRepository)(nil)

// SQLGoalRepository stores goals in Postgres or SQLite. Queries stick to the
// dialect subset both engines share.
type SQLGoalRepository struct {
	db *sqlx.DB
}

func NewSQLGoalRepository(db *sqlx.DB) *SQLGoalRepository {
	return &SQLGoalRepository{db: db}
}

const goalColumns = `id, user_id, type, time_type, unit_amount, version, created_at, updated_at`

func (r *SQLGoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES (:id, :user_id, :type, :time_type, :unit_amount, 1, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, g); err != nil {
		if mapped := mapConstraintError(err, nil, domain.ErrGoalConflict); mapped == domain.ErrGoalConflict {
			return mapped
		}
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	g.Version = 1
	return nil
}

func (r *SQLGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	var g domain.Goal
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	if err := r.db.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	normalizeGoal(&g)
	return &g, nil
}

func (r *SQLGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals := []*domain.Goal{}
	query := `
		SELECT ` + goalColumns + ` FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	for _, g := range goals {
		normalizeGoal(g)
	}
	return goals, nil
}

func (r *SQLGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	query := `
		UPDATE goals SET
			type = $1, time_type = $2, unit_amount = $3,
			updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`

	var newVersion int
	err := r.db.QueryRowContext(ctx, query,
		g.Type, g.TimeType, g.UnitAmount,
		g.UpdatedAt.UTC(),
		g.ID, g.Version,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if checkErr := r.db.GetContext(ctx, &count, `SELECT count(*) FROM goals WHERE id = $1`, g.ID); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrGoalNotFound
			}
			return domain.ErrGoalConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	g.Version = newVersion
	return nil
}

// Delete removes the goal and its logs in one transaction.
func (r *SQLGoalRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goal_logs WHERE goal_id = $1`, id); err != nil {
		return fmt.Errorf("delete goal logs failed: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}

	return tx.Commit()
}

func normalizeGoal(g *domain.Goal) {
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
}

func normalizeLog(l *domain.GoalLog) {
	l.CreatedAt = l.CreatedAt.UTC()
}
