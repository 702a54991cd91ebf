package domain

import "time"

type DailyStats struct {
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	TotalLogs  int        `json:"total_logs"`
	ActiveDays int        `json:"active_days"`
	TypeStats  []TypeStat `json:"types"`
}

type TypeStat struct {
	Type          GoalType `json:"type"`
	TotalValue    int      `json:"total_value"`
	DaysLogged    int      `json:"days_logged"`
	DailyProgress []int    `json:"daily_progress"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}
