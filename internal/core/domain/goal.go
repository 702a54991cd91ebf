package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGoalInvalidUserID = errors.New("invalid user id")
	ErrInvalidGoalType   = errors.New("invalid goal type (must be pages, minutes, books, or days)")
	ErrInvalidTimeType   = errors.New("invalid time type (must be daily, weekly, monthly, or yearly)")
	ErrInvalidUnitAmount = errors.New("unit amount cannot be negative")
)

// GoalType is the unit a goal tracks.
type GoalType string

const (
	GoalTypePages   GoalType = "pages"
	GoalTypeMinutes GoalType = "minutes"
	GoalTypeBooks   GoalType = "books"
	GoalTypeDays    GoalType = "days"
)

func (t GoalType) IsValid() bool {
	switch t {
	case GoalTypePages, GoalTypeMinutes, GoalTypeBooks, GoalTypeDays:
		return true
	}
	return false
}

// TimeType is the cadence a goal is measured over.
type TimeType string

const (
	TimeTypeDaily   TimeType = "daily"
	TimeTypeWeekly  TimeType = "weekly"
	TimeTypeMonthly TimeType = "monthly"
	TimeTypeYearly  TimeType = "yearly"
)

func (t TimeType) IsValid() bool {
	switch t {
	case TimeTypeDaily, TimeTypeWeekly, TimeTypeMonthly, TimeTypeYearly:
		return true
	}
	return false
}

type Goal struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Type       GoalType  `json:"type" db:"type"`
	TimeType   TimeType  `json:"time_type" db:"time_type"`
	UnitAmount *int      `json:"unit_amount" db:"unit_amount"`
	Version    int       `json:"version" db:"version"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func validateGoal(goalType GoalType, timeType TimeType, unitAmount *int) error {
	if !goalType.IsValid() {
		return ErrInvalidGoalType
	}
	if !timeType.IsValid() {
		return ErrInvalidTimeType
	}
	if unitAmount != nil && *unitAmount < 0 {
		return ErrInvalidUnitAmount
	}
	return nil
}

func NewGoal(userID string, goalType GoalType, timeType TimeType, unitAmount *int) (*Goal, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrGoalInvalidUserID
	}

	goalType = GoalType(strings.ToLower(strings.TrimSpace(string(goalType))))
	timeType = TimeType(strings.ToLower(strings.TrimSpace(string(timeType))))

	if err := validateGoal(goalType, timeType, unitAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Goal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       goalType,
		TimeType:   timeType,
		UnitAmount: copyAmount(unitAmount),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Update replaces the goal definition. Version is owned by the repository.
func (g *Goal) Update(goalType GoalType, timeType TimeType, unitAmount *int) error {
	if err := validateGoal(goalType, timeType, unitAmount); err != nil {
		return err
	}

	g.Type = goalType
	g.TimeType = timeType
	g.UnitAmount = copyAmount(unitAmount)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Target returns the goal amount, treating a missing amount as 0.
func (g *Goal) Target() int {
	if g.UnitAmount == nil || *g.UnitAmount < 0 {
		return 0
	}
	return *g.UnitAmount
}

func copyAmount(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
