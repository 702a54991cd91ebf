package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidLog  = errors.New("invalid goal log data")
	ErrLogInFuture = errors.New("created_at cannot be in the future")
)

// GoalLog is an incremental contribution toward a goal. Logs are append-only.
//
// GoalTimeType is the cadence of the owning goal at read time; stores resolve it
// from the goal rather than trusting a copy on the log row.
type GoalLog struct {
	ID           string    `json:"id" db:"id"`
	GoalID       string    `json:"goal_id" db:"goal_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Type         GoalType  `json:"type" db:"type"`
	GoalTimeType TimeType  `json:"goal_time_type" db:"goal_time_type"`
	UnitAmount   *int      `json:"unit_amount" db:"unit_amount"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func NewGoalLog(goal *Goal, unitAmount *int, at time.Time) *GoalLog {
	return &GoalLog{
		ID:           uuid.NewString(),
		GoalID:       goal.ID,
		UserID:       goal.UserID,
		Type:         goal.Type,
		GoalTimeType: goal.TimeType,
		UnitAmount:   copyAmount(unitAmount),
		CreatedAt:    at.UTC(),
	}
}

func (l *GoalLog) Validate() error {
	if strings.TrimSpace(l.GoalID) == "" {
		return errors.New("goal_id is required")
	}
	if strings.TrimSpace(l.UserID) == "" {
		return errors.New("user_id is required")
	}
	if !l.Type.IsValid() {
		return ErrInvalidGoalType
	}
	if l.UnitAmount != nil && *l.UnitAmount < 0 {
		return ErrInvalidUnitAmount
	}
	if l.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	return nil
}

// Amount returns the logged quantity. Missing or negative amounts count as 0.
func (l *GoalLog) Amount() int {
	if l.UnitAmount == nil || *l.UnitAmount < 0 {
		return 0
	}
	return *l.UnitAmount
}
