package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

var (
	_ domain.GoalRepository    = (*InMemoryGoalRepository)(nil)
	_ domain.GoalLogRepository = (*InMemoryGoalLogRepository)(nil)
)

// InMemoryGoalRepository backs the "memory" driver. Values are copied on the way
// in and out so callers never share state with the store.
type InMemoryGoalRepository struct {
	store map[string]*domain.Goal

	mu sync.RWMutex
}

func NewInMemoryGoalRepository() *InMemoryGoalRepository {
	return &InMemoryGoalRepository{
		store: make(map[string]*domain.Goal),
	}
}

func cloneGoal(g *domain.Goal) *domain.Goal {
	c := *g
	if g.UnitAmount != nil {
		v := *g.UnitAmount
		c.UnitAmount = &v
	}
	return &c
}

func (r *InMemoryGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[goal.ID]; exists {
		return domain.ErrGoalConflict
	}

	goal.Version = 1
	r.store[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *InMemoryGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goal, ok := r.store[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return cloneGoal(goal), nil
}

func (r *InMemoryGoalRepository) timeTypeOf(goalID string) (domain.TimeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goal, ok := r.store[goalID]
	if !ok {
		return "", false
	}
	return goal.TimeType, true
}

func (r *InMemoryGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := []*domain.Goal{}
	for _, g := range r.store {
		if g.UserID == userID {
			goals = append(goals, cloneGoal(g))
		}
	}

	sort.Slice(goals, func(i, j int) bool {
		if goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].ID < goals[j].ID
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})

	return goals, nil
}

func (r *InMemoryGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[goal.ID]
	if !ok {
		return domain.ErrGoalNotFound
	}
	if stored.Version != goal.Version {
		return domain.ErrGoalConflict
	}

	goal.Version++
	r.store[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *InMemoryGoalRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrGoalNotFound
	}

	delete(r.store, id)
	return nil
}

// InMemoryGoalLogRepository resolves goal cadences through the goal store and
// hides logs whose goal has been deleted, like the SQL join does.
type InMemoryGoalLogRepository struct {
	goals *InMemoryGoalRepository
	store map[string]*domain.GoalLog

	mu sync.RWMutex
}

func NewInMemoryGoalLogRepository(goals *InMemoryGoalRepository) *InMemoryGoalLogRepository {
	return &InMemoryGoalLogRepository{
		goals: goals,
		store: make(map[string]*domain.GoalLog),
	}
}

func (r *InMemoryGoalLogRepository) resolve(l *domain.GoalLog) (*domain.GoalLog, bool) {
	timeType, ok := r.goals.timeTypeOf(l.GoalID)
	if !ok {
		return nil, false
	}
	c := *l
	if l.UnitAmount != nil {
		v := *l.UnitAmount
		c.UnitAmount = &v
	}
	c.GoalTimeType = timeType
	return &c, true
}

func (r *InMemoryGoalLogRepository) Create(ctx context.Context, l *domain.GoalLog) error {
	if _, ok := r.goals.timeTypeOf(l.GoalID); !ok {
		return domain.ErrGoalNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[l.ID]; exists {
		return domain.ErrInvalidLog
	}

	c := *l
	r.store[l.ID] = &c
	return nil
}

func (r *InMemoryGoalLogRepository) GetByID(ctx context.Context, id string) (*domain.GoalLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.store[id]
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	resolved, ok := r.resolve(l)
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	return resolved, nil
}

func (r *InMemoryGoalLogRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.store[id]
	if !ok || l.UserID != userID {
		return domain.ErrLogNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryGoalLogRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalLog, error) {
	return r.list(userID, func(*domain.GoalLog) bool { return true }), nil
}

func (r *InMemoryGoalLogRepository) ListByUserIDInRange(ctx context.Context, userID string, goalType domain.GoalType, from, to time.Time) ([]*domain.GoalLog, error) {
	return r.list(userID, func(l *domain.GoalLog) bool {
		if goalType != "" && l.Type != goalType {
			return false
		}
		return !l.CreatedAt.Before(from) && l.CreatedAt.Before(to)
	}), nil
}

func (r *InMemoryGoalLogRepository) list(userID string, keep func(*domain.GoalLog) bool) []*domain.GoalLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := []*domain.GoalLog{}
	for _, l := range r.store {
		if l.UserID != userID || !keep(l) {
			continue
		}
		if resolved, ok := r.resolve(l); ok {
			logs = append(logs, resolved)
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].ID < logs[j].ID
		}
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})

	return logs
}
