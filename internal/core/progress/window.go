// Package progress computes goal progress and reading streaks from goals and
// logs that are already in memory. Every function is pure: "now" is always a
// parameter and all day boundaries are UTC midnights.
package progress

import (
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

const dayLayout = "2006-01-02"

// ComputeWindows returns the daily, weekly, monthly and yearly windows containing now.
// Weeks start on Sunday.
func ComputeWindows(now time.Time) domain.Windows {
	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	return domain.Windows{
		Daily:   domain.Window{Start: today, End: today.AddDate(0, 0, 1)},
		Weekly:  domain.Window{Start: weekStart, End: weekStart.AddDate(0, 0, 7)},
		Monthly: domain.Window{Start: monthStart, End: monthStart.AddDate(0, 1, 0)},
		Yearly:  domain.Window{Start: yearStart, End: yearStart.AddDate(1, 0, 0)},
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
