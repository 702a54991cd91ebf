package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/metrics"
)

type fakeBuilder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (b *fakeBuilder) Report(ctx context.Context, userID string, now time.Time) (*domain.ProgressReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &domain.ProgressReport{UserID: userID, ComputedAt: now, Streak: 2}, nil
}

func (b *fakeBuilder) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type fakeCache struct {
	mu      sync.Mutex
	reports map[string]*domain.ProgressReport
}

func newFakeCache() *fakeCache {
	return &fakeCache{reports: make(map[string]*domain.ProgressReport)}
}

func (c *fakeCache) Get(ctx context.Context, userID string) (*domain.ProgressReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[userID]
	if !ok {
		return nil, domain.ErrReportNotCached
	}
	return r, nil
}

func (c *fakeCache) Put(ctx context.Context, report *domain.ProgressReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[report.UserID] = report
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.reports, userID)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProgressWorker_EnqueueDropsWhenFull(t *testing.T) {
	w := NewProgressWorker(nil, nil, 1)
	before := testutil.ToFloat64(metrics.WorkerDroppedTotal)

	w.Enqueue("user-1")
	w.Enqueue("user-2")

	assert.Len(t, w.jobs, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerDroppedTotal))

	job := <-w.jobs
	assert.Equal(t, "user-1", job.UserID)
	assert.False(t, job.EnqueuedAt.IsZero())
}

func TestProgressWorker_DefaultQueueSize(t *testing.T) {
	w := NewProgressWorker(nil, nil, 0)
	assert.Equal(t, DefaultQueueSize, cap(w.jobs))
}

func TestProgressWorker_ProcessJob(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	t.Run("Recomputes and stores the report", func(t *testing.T) {
		builder := &fakeBuilder{}
		cache := newFakeCache()
		w := NewProgressWorker(builder, cache, 10)
		w.clock = fixedClock(now)

		w.processJob(ctx, ProgressJob{UserID: "user-1", EnqueuedAt: now.Add(-time.Second)})

		stored, err := cache.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, now, stored.ComputedAt)
		assert.Equal(t, 1, builder.Calls())
	})

	t.Run("Skips when the cached report is newer than the change", func(t *testing.T) {
		builder := &fakeBuilder{}
		cache := newFakeCache()
		require.NoError(t, cache.Put(ctx, &domain.ProgressReport{UserID: "user-1", ComputedAt: now}))
		w := NewProgressWorker(builder, cache, 10)
		w.clock = fixedClock(now.Add(time.Minute))

		w.processJob(ctx, ProgressJob{UserID: "user-1", EnqueuedAt: now.Add(-time.Second)})

		assert.Equal(t, 0, builder.Calls())
	})

	t.Run("Recomputes when the cached report predates the change", func(t *testing.T) {
		builder := &fakeBuilder{}
		cache := newFakeCache()
		require.NoError(t, cache.Put(ctx, &domain.ProgressReport{UserID: "user-1", ComputedAt: now.Add(-time.Hour)}))
		w := NewProgressWorker(builder, cache, 10)
		w.clock = fixedClock(now)

		w.processJob(ctx, ProgressJob{UserID: "user-1", EnqueuedAt: now.Add(-time.Second)})

		stored, _ := cache.Get(ctx, "user-1")
		assert.Equal(t, now, stored.ComputedAt)
	})

	t.Run("Builder errors leave the cache untouched", func(t *testing.T) {
		builder := &fakeBuilder{err: errors.New("db down")}
		cache := newFakeCache()
		w := NewProgressWorker(builder, cache, 10)
		w.clock = fixedClock(now)

		w.processJob(ctx, ProgressJob{UserID: "user-1", EnqueuedAt: now})

		_, err := cache.Get(ctx, "user-1")
		assert.ErrorIs(t, err, domain.ErrReportNotCached)
	})
}

func TestProgressWorker_StartDrainsQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builder := &fakeBuilder{}
	cache := newFakeCache()
	w := NewProgressWorker(builder, cache, 10)
	w.Start(ctx)

	w.Enqueue("user-1")
	w.Enqueue("user-2")

	assert.Eventually(t, func() bool {
		_, err1 := cache.Get(ctx, "user-1")
		_, err2 := cache.Get(ctx, "user-2")
		return err1 == nil && err2 == nil
	}, time.Second, 10*time.Millisecond)
}
