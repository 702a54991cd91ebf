package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/workers"
)

func ptr[T any](v T) *T {
	return &v
}

type MockGoalRepo struct {
	mock.Mock
}

func (m *MockGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGoalRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockGoalLogRepo struct {
	mock.Mock
}

func (m *MockGoalLogRepo) Create(ctx context.Context, l *domain.GoalLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockGoalLogRepo) GetByID(ctx context.Context, id string) (*domain.GoalLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalLog), args.Error(1)
}

func (m *MockGoalLogRepo) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockGoalLogRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GoalLog), args.Error(1)
}

func (m *MockGoalLogRepo) ListByUserIDInRange(ctx context.Context, userID string, goalType domain.GoalType, from, to time.Time) ([]*domain.GoalLog, error) {
	args := m.Called(ctx, userID, goalType, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GoalLog), args.Error(1)
}

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, userID string) (*domain.ProgressReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressReport), args.Error(1)
}

func (m *MockReportCache) Put(ctx context.Context, r *domain.ProgressReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReportCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func getTestWorker() *workers.ProgressWorker {
	return workers.NewProgressWorker(nil, nil, 10)
}
