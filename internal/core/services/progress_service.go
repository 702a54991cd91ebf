package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/progress"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/workers"
	"github.com/comitanigiacomo/readtrack-engine/internal/metrics"
)

// ProgressService loads a user's goals and logs and hands them to the progress engine.
type ProgressService struct {
	goalRepo domain.GoalRepository
	logRepo  domain.GoalLogRepository
	cache    domain.ReportCache
}

func NewProgressService(goalRepo domain.GoalRepository, logRepo domain.GoalLogRepository, cache domain.ReportCache) *ProgressService {
	return &ProgressService{
		goalRepo: goalRepo,
		logRepo:  logRepo,
		cache:    cache,
	}
}

// Report computes a fresh report for userID as of now.
func (s *ProgressService) Report(ctx context.Context, userID string, now time.Time) (*domain.ProgressReport, error) {
	from, to := fetchRange(progress.ComputeWindows(now))

	var (
		goals      []*domain.Goal
		windowLogs []*domain.GoalLog
		allLogs    []*domain.GoalLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = s.goalRepo.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("list goals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		windowLogs, err = s.logRepo.ListByUserIDInRange(gctx, userID, "", from, to)
		if err != nil {
			return fmt.Errorf("list window logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		allLogs, err = s.logRepo.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("list log history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("progress report for %s: %w", userID, err)
	}

	start := time.Now()
	report := progress.BuildReport(userID, goals, windowLogs, allLogs, now)
	metrics.ProgressComputeSeconds.Observe(time.Since(start).Seconds())
	metrics.ProgressReportsTotal.WithLabelValues(metrics.SourceComputed).Inc()

	return report, nil
}

// CachedReport serves the cached report while it is still for the same UTC day as now,
// and computes and stores a fresh one otherwise.
func (s *ProgressService) CachedReport(ctx context.Context, userID string, now time.Time) (*domain.ProgressReport, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		switch {
		case err == nil && cached.Windows.Daily.Contains(now) && !cached.ComputedAt.After(now):
			metrics.ProgressReportsTotal.WithLabelValues(metrics.SourceCache).Inc()
			return cached, nil
		case err != nil && !errors.Is(err, domain.ErrReportNotCached):
			slog.Warn("report cache read failed", "user_id", userID, "error", err)
		}
	}

	report, err := s.Report(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, report); err != nil {
			slog.Warn("report cache write failed", "user_id", userID, "error", err)
		}
	}

	return report, nil
}

// fetchRange covers every window of a pass. The week can start in the previous year.
func fetchRange(w domain.Windows) (time.Time, time.Time) {
	from, to := w.Yearly.Start, w.Yearly.End
	if w.Weekly.Start.Before(from) {
		from = w.Weekly.Start
	}
	if w.Weekly.End.After(to) {
		to = w.Weekly.End
	}
	return from, to
}

// notifyChange drops the cached report and schedules a background recompute.
func notifyChange(ctx context.Context, cache domain.ReportCache, worker *workers.ProgressWorker, userID string) {
	if cache != nil {
		if err := cache.Invalidate(ctx, userID); err != nil {
			slog.Warn("failed to invalidate progress report", "user_id", userID, "error", err)
		}
	}
	if worker != nil {
		worker.Enqueue(userID)
	}
}
