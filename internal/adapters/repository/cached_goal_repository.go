package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

const goalListTTL = 30 * time.Minute

var _ domain.GoalRepository = (*CachedGoalRepository)(nil)

// CachedGoalRepository caches goal lists per user in Redis. Every write invalidates.
type CachedGoalRepository struct {
	next  domain.GoalRepository
	cache *redis.Client
}

func NewCachedGoalRepository(next domain.GoalRepository, cache *redis.Client) *CachedGoalRepository {
	return &CachedGoalRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedGoalRepository) cacheKey(userID string) string {
	return fmt.Sprintf("goals:%s", userID)
}

func (r *CachedGoalRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		slog.Warn("goal cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (r *CachedGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var goals []*domain.Goal
		if err := json.Unmarshal(val, &goals); err == nil {
			return goals, nil
		}

		slog.Warn("corrupted goal cache entry, cleaning up", "user_id", userID)
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("goal cache read failed", "error", err)
	}

	goals, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(goals); err == nil {
		if setErr := r.cache.Set(ctx, key, data, goalListTTL).Err(); setErr != nil {
			slog.Warn("goal cache write failed", "error", setErr)
		}
	}

	return goals, nil
}

func (r *CachedGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	if err := r.next.Create(ctx, goal); err != nil {
		return err
	}
	r.invalidate(ctx, goal.UserID)
	return nil
}

func (r *CachedGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if err := r.next.Update(ctx, goal); err != nil {
		return err
	}
	r.invalidate(ctx, goal.UserID)
	return nil
}

func (r *CachedGoalRepository) Delete(ctx context.Context, id string) error {
	goal, err := r.next.GetByID(ctx, id)
	if err == nil && goal != nil {
		defer r.invalidate(ctx, goal.UserID)
	}

	return r.next.Delete(ctx, id)
}
