package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/metrics"
)

const DefaultQueueSize = 100

type ReportBuilder interface {
	Report(ctx context.Context, userID string, now time.Time) (*domain.ProgressReport, error)
}

type ProgressJob struct {
	UserID     string
	EnqueuedAt time.Time
}

// ProgressWorker recomputes a user's progress report after their goals or logs change
// and stores it in the report cache.
type ProgressWorker struct {
	builder ReportBuilder
	cache   domain.ReportCache
	jobs    chan ProgressJob
	clock   func() time.Time
}

func NewProgressWorker(builder ReportBuilder, cache domain.ReportCache, queueSize int) *ProgressWorker {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	return &ProgressWorker{
		builder: builder,
		cache:   cache,
		jobs:    make(chan ProgressJob, queueSize),
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

func (w *ProgressWorker) Start(ctx context.Context) {
	go func() {
		slog.Info("progress worker started", "queue_size", cap(w.jobs))
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				slog.Info("progress worker shutting down", "pending", len(w.jobs))
				return
			}
		}
	}()
}

// Enqueue never blocks. When the queue is full the job is dropped; readers fall
// back to computing the report on demand.
func (w *ProgressWorker) Enqueue(userID string) {
	select {
	case w.jobs <- ProgressJob{UserID: userID, EnqueuedAt: w.clock()}:
	default:
		metrics.WorkerDroppedTotal.Inc()
		slog.Warn("progress worker queue full, dropping job", "user_id", userID)
	}
}

// Pending reports the number of queued jobs.
func (w *ProgressWorker) Pending() int {
	return len(w.jobs)
}

func (w *ProgressWorker) processJob(ctx context.Context, job ProgressJob) {
	cached, err := w.cache.Get(ctx, job.UserID)
	switch {
	case err == nil && cached.ComputedAt.After(job.EnqueuedAt):
		slog.Debug("progress report already fresh", "user_id", job.UserID)
		return
	case err != nil && !errors.Is(err, domain.ErrReportNotCached):
		slog.Warn("report cache read failed", "user_id", job.UserID, "error", err)
	}

	report, err := w.builder.Report(ctx, job.UserID, w.clock())
	if err != nil {
		slog.Error("failed to recompute progress", "user_id", job.UserID, "error", err)
		return
	}

	if err := w.cache.Put(ctx, report); err != nil {
		slog.Error("failed to store progress report", "user_id", job.UserID, "error", err)
		return
	}

	slog.Debug("progress report recomputed",
		"user_id", job.UserID,
		"streak", report.Streak,
		"goals", len(report.Goals),
		"lag", w.clock().Sub(job.EnqueuedAt),
	)
}
