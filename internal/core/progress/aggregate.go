package progress

import (
	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

// inheritedCadences lists, per goal cadence, the log cadences that count toward it.
// Finer logs roll up into coarser goals, never the reverse. Yearly goals only take yearly logs.
var inheritedCadences = map[domain.TimeType][]domain.TimeType{
	domain.TimeTypeDaily:   {domain.TimeTypeDaily},
	domain.TimeTypeWeekly:  {domain.TimeTypeWeekly, domain.TimeTypeDaily},
	domain.TimeTypeMonthly: {domain.TimeTypeMonthly, domain.TimeTypeWeekly, domain.TimeTypeDaily},
	domain.TimeTypeYearly:  {domain.TimeTypeYearly},
}

func countsToward(goalCadence, logCadence domain.TimeType) bool {
	for _, c := range inheritedCadences[goalCadence] {
		if c == logCadence {
			return true
		}
	}
	return false
}

// ComputeGoalProgress returns the progress of goal inside its current window.
//
// A log counts when its type matches the goal type, its goal cadence is inherited
// by the goal cadence and its timestamp falls in the goal window. Quantity goals sum
// the amounts; "days" goals count distinct days instead.
func ComputeGoalProgress(goal *domain.Goal, logs []*domain.GoalLog, windows domain.Windows) int {
	if goal == nil {
		return 0
	}

	window := windows.For(goal.TimeType)

	eligible := make([]*domain.GoalLog, 0, len(logs))
	for _, l := range logs {
		if l == nil || l.Type != goal.Type {
			continue
		}
		if !countsToward(goal.TimeType, l.GoalTimeType) {
			continue
		}
		if !window.Contains(l.CreatedAt) {
			continue
		}
		eligible = append(eligible, l)
	}

	if goal.Type == domain.GoalTypeDays {
		return ComputeUniqueDays(eligible, window)
	}

	total := 0
	for _, l := range eligible {
		total += l.Amount()
	}
	return total
}

// ComputeUniqueDays counts the distinct UTC calendar days inside window that have at least one log.
func ComputeUniqueDays(logs []*domain.GoalLog, window domain.Window) int {
	days := make(map[string]struct{})
	for _, l := range logs {
		if l == nil || !window.Contains(l.CreatedAt) {
			continue
		}
		days[dayKey(l.CreatedAt)] = struct{}{}
	}
	return len(days)
}
