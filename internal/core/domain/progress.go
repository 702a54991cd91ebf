package domain

import "time"

type GoalProgress struct {
	GoalID    string   `json:"goal_id"`
	Type      GoalType `json:"type"`
	TimeType  TimeType `json:"time_type"`
	Progress  int      `json:"progress"`
	Target    int      `json:"target"`
	Ratio     float64  `json:"ratio"`
	Completed bool     `json:"completed"`
	Window    Window   `json:"window"`
}

// ProgressReport is everything the goals screen renders for one user at one instant.
type ProgressReport struct {
	UserID        string         `json:"user_id"`
	ComputedAt    time.Time      `json:"computed_at"`
	Windows       Windows        `json:"windows"`
	Goals         []GoalProgress `json:"goals"`
	Streak        int            `json:"streak"`
	LongestStreak int            `json:"longest_streak"`
	// WeekDots flags Sunday through Saturday of the current week.
	WeekDots [7]bool `json:"week_dots"`
}
