package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrGoalConflict = errors.New("goal version conflict")
	ErrLogNotFound  = errors.New("goal log not found")
	ErrUnauthorized = errors.New("resource does not belong to user")

	ErrReportNotCached = errors.New("progress report not cached")
)

type GoalRepository interface {
	// Create persists a new goal definition.
	Create(ctx context.Context, goal *Goal) error

	// GetByID retrieves a goal by its unique identifier.
	GetByID(ctx context.Context, id string) (*Goal, error)

	// ListByUserID retrieves all goals of a user, oldest first.
	// Duplicate (type, time_type) goals are returned as separate rows.
	ListByUserID(ctx context.Context, userID string) ([]*Goal, error)

	// Update modifies an existing goal.
	// Implementations must reject stale versions with ErrGoalConflict.
	Update(ctx context.Context, goal *Goal) error

	// Delete removes a goal together with its logs.
	Delete(ctx context.Context, id string) error
}

type GoalLogRepository interface {
	// Create appends a log. Logs are never updated in place.
	Create(ctx context.Context, log *GoalLog) error

	// GetByID retrieves a single log.
	GetByID(ctx context.Context, id string) (*GoalLog, error)

	// Delete removes a log owned by userID.
	Delete(ctx context.Context, id string, userID string) error

	// ListByUserID returns every log of the user, newest first.
	// This is the unbounded read used for streaks.
	ListByUserID(ctx context.Context, userID string) ([]*GoalLog, error)

	// ListByUserIDInRange returns logs with from <= created_at < to, newest first.
	// An empty goalType matches every type.
	ListByUserIDInRange(ctx context.Context, userID string, goalType GoalType, from, to time.Time) ([]*GoalLog, error)
}

// ReportCache stores the latest computed report per user.
type ReportCache interface {
	// Get returns ErrReportNotCached on a miss.
	Get(ctx context.Context, userID string) (*ProgressReport, error)

	// Put stores report unless a report with a later ComputedAt is already cached.
	Put(ctx context.Context, report *ProgressReport) error

	Invalidate(ctx context.Context, userID string) error
}
