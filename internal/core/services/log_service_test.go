package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

func TestLogService_Create(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	gid := "goal-abc"
	goal := &domain.Goal{ID: gid, UserID: uid, Type: domain.GoalTypeMinutes, TimeType: domain.TimeTypeWeekly}

	t.Run("Success: Should copy the goal type, persist AND enqueue worker", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		worker := getTestWorker()
		svc := services.NewLogService(logRepo, goalRepo, nil, worker)

		at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
		goalRepo.On("GetByID", ctx, gid).Return(goal, nil)
		logRepo.On("Create", ctx, mock.MatchedBy(func(l *domain.GoalLog) bool {
			return l.GoalID == gid && l.UserID == uid && l.Type == domain.GoalTypeMinutes &&
				l.GoalTimeType == domain.TimeTypeWeekly && *l.UnitAmount == 30 && l.CreatedAt.Equal(at)
		})).Return(nil)

		created, err := svc.Create(ctx, services.CreateLogInput{GoalID: gid, UserID: uid, UnitAmount: ptr(30), CreatedAt: at})

		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 1, worker.Pending())
		logRepo.AssertExpectations(t)
	})

	t.Run("Success: Missing created_at defaults to now", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		svc := services.NewLogService(logRepo, goalRepo, nil, getTestWorker())

		goalRepo.On("GetByID", ctx, gid).Return(goal, nil)
		logRepo.On("Create", ctx, mock.Anything).Return(nil)

		before := time.Now().UTC()
		created, err := svc.Create(ctx, services.CreateLogInput{GoalID: gid, UserID: uid})

		require.NoError(t, err)
		assert.WithinDuration(t, before, created.CreatedAt, 5*time.Second)
		assert.Nil(t, created.UnitAmount)
	})

	t.Run("Fail: Should reject logs on goals of other users", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		worker := getTestWorker()
		svc := services.NewLogService(logRepo, goalRepo, nil, worker)

		goalRepo.On("GetByID", ctx, gid).Return(goal, nil)

		_, err := svc.Create(ctx, services.CreateLogInput{GoalID: gid, UserID: "hacker", UnitAmount: ptr(1)})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, 0, worker.Pending())
		logRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Fail: Should reject negative amounts", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		svc := services.NewLogService(logRepo, goalRepo, nil, getTestWorker())

		goalRepo.On("GetByID", ctx, gid).Return(goal, nil)

		_, err := svc.Create(ctx, services.CreateLogInput{GoalID: gid, UserID: uid, UnitAmount: ptr(-1)})

		assert.ErrorIs(t, err, domain.ErrInvalidUnitAmount)
	})

	t.Run("Fail: Should reject logs dated in the future", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		worker := getTestWorker()
		svc := services.NewLogService(logRepo, goalRepo, nil, worker)

		goalRepo.On("GetByID", ctx, gid).Return(goal, nil)

		_, err := svc.Create(ctx, services.CreateLogInput{GoalID: gid, UserID: uid, UnitAmount: ptr(5), CreatedAt: time.Now().Add(time.Hour)})

		assert.ErrorIs(t, err, domain.ErrLogInFuture)
		assert.Equal(t, 0, worker.Pending())
		logRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Success: Small clock skew is tolerated", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		svc := services.NewLogService(logRepo, goalRepo, nil, getTestWorker())

		goalRepo.On("GetByID", ctx, gid).Return(goal, nil)
		logRepo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, services.CreateLogInput{GoalID: gid, UserID: uid, UnitAmount: ptr(5), CreatedAt: time.Now().Add(10 * time.Second)})

		require.NoError(t, err)
	})

	t.Run("Fail: Unknown goal", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		goalRepo := new(MockGoalRepo)
		svc := services.NewLogService(logRepo, goalRepo, nil, getTestWorker())

		goalRepo.On("GetByID", ctx, "missing").Return(nil, domain.ErrGoalNotFound)

		_, err := svc.Create(ctx, services.CreateLogInput{GoalID: "missing", UserID: uid})

		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	})
}

func TestLogService_List(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	logs := []*domain.GoalLog{{ID: "l1", UserID: uid}}

	t.Run("Success: No filters returns the whole history", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		svc := services.NewLogService(logRepo, new(MockGoalRepo), nil, nil)

		logRepo.On("ListByUserID", ctx, uid).Return(logs, nil)

		got, err := svc.List(ctx, services.ListLogsInput{UserID: uid})

		require.NoError(t, err)
		assert.Equal(t, logs, got)
	})

	t.Run("Success: Range and type are passed through", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		svc := services.NewLogService(logRepo, new(MockGoalRepo), nil, nil)

		logRepo.On("ListByUserIDInRange", ctx, uid, domain.GoalTypePages, from, to).Return(logs, nil)

		got, err := svc.List(ctx, services.ListLogsInput{UserID: uid, Type: "pages", From: from, To: to})

		require.NoError(t, err)
		assert.Len(t, got, 1)
		logRepo.AssertExpectations(t)
	})

	t.Run("Success: Open ended range is bounded by now", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		svc := services.NewLogService(logRepo, new(MockGoalRepo), nil, nil)

		logRepo.On("ListByUserIDInRange", ctx, uid, domain.GoalType(""), from, mock.MatchedBy(func(ts time.Time) bool {
			return time.Since(ts) < time.Minute
		})).Return([]*domain.GoalLog{}, nil)

		got, err := svc.List(ctx, services.ListLogsInput{UserID: uid, From: from})

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Fail: Invalid type", func(t *testing.T) {
		svc := services.NewLogService(new(MockGoalLogRepo), new(MockGoalRepo), nil, nil)

		_, err := svc.List(ctx, services.ListLogsInput{UserID: uid, Type: "chapters"})

		assert.ErrorIs(t, err, domain.ErrInvalidGoalType)
	})

	t.Run("Fail: Inverted range", func(t *testing.T) {
		svc := services.NewLogService(new(MockGoalLogRepo), new(MockGoalRepo), nil, nil)

		_, err := svc.List(ctx, services.ListLogsInput{UserID: uid, From: to, To: from})

		assert.ErrorIs(t, err, services.ErrInvalidRange)
	})
}

func TestLogService_Delete(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	entry := &domain.GoalLog{ID: "log-1", GoalID: "goal-1", UserID: uid}

	t.Run("Success: Owner deletes and a recompute is enqueued", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		cache := new(MockReportCache)
		worker := getTestWorker()
		svc := services.NewLogService(logRepo, new(MockGoalRepo), cache, worker)

		logRepo.On("GetByID", ctx, "log-1").Return(entry, nil)
		logRepo.On("Delete", ctx, "log-1", uid).Return(nil)
		cache.On("Invalidate", ctx, uid).Return(nil)

		require.NoError(t, svc.Delete(ctx, "log-1", uid))
		assert.Equal(t, 1, worker.Pending())
		cache.AssertExpectations(t)
	})

	t.Run("Fail: Other users cannot delete", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		svc := services.NewLogService(logRepo, new(MockGoalRepo), nil, getTestWorker())

		logRepo.On("GetByID", ctx, "log-1").Return(entry, nil)

		assert.ErrorIs(t, svc.Delete(ctx, "log-1", "hacker"), domain.ErrUnauthorized)
		logRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Repo error propagates", func(t *testing.T) {
		logRepo := new(MockGoalLogRepo)
		svc := services.NewLogService(logRepo, new(MockGoalRepo), nil, getTestWorker())

		logRepo.On("GetByID", ctx, "log-1").Return(nil, errors.New("boom"))

		assert.EqualError(t, svc.Delete(ctx, "log-1", uid), "boom")
	})
}
