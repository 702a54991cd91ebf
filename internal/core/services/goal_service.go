package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/workers"
)

type GoalService struct {
	repo   domain.GoalRepository
	cache  domain.ReportCache
	worker *workers.ProgressWorker
}

func NewGoalService(repo domain.GoalRepository, cache domain.ReportCache, worker *workers.ProgressWorker) *GoalService {
	return &GoalService{
		repo:   repo,
		cache:  cache,
		worker: worker,
	}
}

type CreateGoalInput struct {
	UserID     string
	Type       string
	TimeType   string
	UnitAmount *int
}

type UpdateGoalInput struct {
	ID         string
	UserID     string
	Type       string
	TimeType   string
	UnitAmount *int
	Version    int
}

func mergeString(newVal, oldVal string) string {
	newVal = strings.ToLower(strings.TrimSpace(newVal))
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *GoalService) Create(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	goal, err := domain.NewGoal(input.UserID, domain.GoalType(input.Type), domain.TimeType(input.TimeType), input.UnitAmount)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}

	notifyChange(ctx, s.cache, s.worker, goal.UserID)

	return goal, nil
}

func (s *GoalService) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// GetByID hides goals of other users behind ErrGoalNotFound.
func (s *GoalService) GetByID(ctx context.Context, id string, userID string) (*domain.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// Update applies a partial update. Empty strings and a nil amount keep the stored values.
func (s *GoalService) Update(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && goal.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrGoalConflict, input.Version, goal.Version)
	}

	goalType := domain.GoalType(mergeString(input.Type, string(goal.Type)))
	timeType := domain.TimeType(mergeString(input.TimeType, string(goal.TimeType)))

	amount := goal.UnitAmount
	if input.UnitAmount != nil {
		amount = input.UnitAmount
	}

	if err := goal.Update(goalType, timeType, amount); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	notifyChange(ctx, s.cache, s.worker, goal.UserID)

	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	notifyChange(ctx, s.cache, s.worker, userID)

	return nil
}
