package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/workers"
)

var ErrInvalidRange = errors.New("invalid time range: from must be before to")

// clockSkew is how far ahead of the server clock a client created_at may be.
const clockSkew = time.Minute

type LogService struct {
	repo     domain.GoalLogRepository
	goalRepo domain.GoalRepository
	cache    domain.ReportCache
	worker   *workers.ProgressWorker
	clock    func() time.Time
}

func NewLogService(repo domain.GoalLogRepository, goalRepo domain.GoalRepository, cache domain.ReportCache, worker *workers.ProgressWorker) *LogService {
	return &LogService{
		repo:     repo,
		goalRepo: goalRepo,
		cache:    cache,
		worker:   worker,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateLogInput struct {
	GoalID     string
	UserID     string
	UnitAmount *int
	// CreatedAt defaults to the current time when zero.
	CreatedAt time.Time
}

type ListLogsInput struct {
	UserID string
	Type   string
	From   time.Time
	To     time.Time
}

// Create appends a log to a goal owned by the user. The log takes its type from the goal.
// Logs dated after the current time are rejected.
func (s *LogService) Create(ctx context.Context, input CreateLogInput) (*domain.GoalLog, error) {
	goal, err := s.goalRepo.GetByID(ctx, input.GoalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != input.UserID {
		return nil, domain.ErrUnauthorized
	}

	now := s.clock()
	at := input.CreatedAt
	if at.IsZero() {
		at = now
	}
	if at.After(now.Add(clockSkew)) {
		return nil, domain.ErrLogInFuture
	}

	entry := domain.NewGoalLog(goal, input.UnitAmount, at)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	notifyChange(ctx, s.cache, s.worker, entry.UserID)

	return entry, nil
}

// List returns the user's logs in [From, To), newest first. Without any filter the
// whole history is returned. Otherwise a zero From means the epoch and a zero To means now.
// An empty Type matches every goal type.
func (s *LogService) List(ctx context.Context, input ListLogsInput) ([]*domain.GoalLog, error) {
	goalType := domain.GoalType(input.Type)
	if goalType != "" && !goalType.IsValid() {
		return nil, domain.ErrInvalidGoalType
	}

	if input.From.IsZero() && input.To.IsZero() && goalType == "" {
		return s.repo.ListByUserID(ctx, input.UserID)
	}

	from := input.From
	if from.IsZero() {
		from = time.Unix(0, 0)
	}
	to := input.To
	if to.IsZero() {
		to = s.clock().Add(time.Nanosecond)
	}

	if !from.Before(to) {
		return nil, ErrInvalidRange
	}

	return s.repo.ListByUserIDInRange(ctx, input.UserID, goalType, from.UTC(), to.UTC())
}

func (s *LogService) GetByID(ctx context.Context, id string, userID string) (*domain.GoalLog, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return entry, nil
}

func (s *LogService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	notifyChange(ctx, s.cache, s.worker, userID)

	return nil
}
