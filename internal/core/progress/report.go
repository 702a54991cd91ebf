package progress

import (
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

// Ratio is progress over target for progress rings. Targets below 1 are clamped to 1.
func Ratio(progress int, target *int) float64 {
	denominator := 1
	if target != nil && *target > 1 {
		denominator = *target
	}
	return float64(progress) / float64(denominator)
}

// WeekdayCompletion flags, Sunday through Saturday, the days of the current week with a log.
func WeekdayCompletion(logs []*domain.GoalLog, windows domain.Windows) [7]bool {
	var dots [7]bool
	for _, l := range logs {
		if l == nil || !windows.Weekly.Contains(l.CreatedAt) {
			continue
		}
		dots[l.CreatedAt.UTC().Weekday()] = true
	}
	return dots
}

// BuildReport evaluates every goal and the streak against a single set of windows.
//
// windowLogs only needs to cover the yearly window; allLogs is the user's full history
// in any order and feeds the streak widgets. Logs from days after now are ignored by the
// streak widgets.
func BuildReport(userID string, goals []*domain.Goal, windowLogs, allLogs []*domain.GoalLog, now time.Time) *domain.ProgressReport {
	windows := ComputeWindows(now)

	report := &domain.ProgressReport{
		UserID:     userID,
		ComputedAt: now.UTC(),
		Windows:    windows,
		Goals:      make([]domain.GoalProgress, 0, len(goals)),
	}

	for _, g := range goals {
		if g == nil {
			continue
		}
		p := ComputeGoalProgress(g, windowLogs, windows)
		target := g.Target()
		report.Goals = append(report.Goals, domain.GoalProgress{
			GoalID:    g.ID,
			Type:      g.Type,
			TimeType:  g.TimeType,
			Progress:  p,
			Target:    target,
			Ratio:     Ratio(p, g.UnitAmount),
			Completed: target > 0 && p >= target,
			Window:    windows.For(g.TimeType),
		})
	}

	history := SortDescending(loggedBefore(allLogs, windows.Daily.End))
	report.Streak = ComputeStreak(history, now)
	report.LongestStreak = ComputeLongestStreak(history)
	report.WeekDots = WeekdayCompletion(history, windows)

	return report
}

// loggedBefore drops nil logs and logs at or after end.
func loggedBefore(logs []*domain.GoalLog, end time.Time) []*domain.GoalLog {
	kept := make([]*domain.GoalLog, 0, len(logs))
	for _, l := range logs {
		if l != nil && l.CreatedAt.Before(end) {
			kept = append(kept, l)
		}
	}
	return kept
}
