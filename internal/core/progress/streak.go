package progress

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

const oneDay = 24 * time.Hour

// ComputeStreak returns the number of consecutive UTC days, ending today, with at least one log.
//
// logsDescending must be ordered newest first. If the newest log is not from today the
// streak is 0. Otherwise the walk counts each distinct day exactly one day before the
// previous distinct day and stops at the first larger gap.
func ComputeStreak(logsDescending []*domain.GoalLog, now time.Time) int {
	logs := compact(logsDescending)
	if len(logs) == 0 {
		return 0
	}

	today := startOfDay(now)
	previous := startOfDay(logs[0].CreatedAt)
	if !previous.Equal(today) {
		return 0
	}

	streak := 1
	for _, l := range logs[1:] {
		current := startOfDay(l.CreatedAt)
		if current.Equal(previous) {
			continue
		}
		if daysBetween(current, previous) != 1 {
			break
		}
		streak++
		previous = current
	}

	return streak
}

// ComputeLongestStreak returns the longest run of consecutive UTC days with logs, in any order.
func ComputeLongestStreak(logs []*domain.GoalLog) int {
	seen := make(map[string]bool)
	var days []time.Time
	for _, l := range compact(logs) {
		key := dayKey(l.CreatedAt)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, startOfDay(l.CreatedAt))
	}

	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// SortDescending returns a copy of logs ordered newest first. Ties keep their input order.
func SortDescending(logs []*domain.GoalLog) []*domain.GoalLog {
	sorted := compact(logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// daysBetween is the absolute number of whole days between two UTC midnights.
func daysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(d / oneDay)
}

func compact(logs []*domain.GoalLog) []*domain.GoalLog {
	out := make([]*domain.GoalLog, 0, len(logs))
	for _, l := range logs {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}
