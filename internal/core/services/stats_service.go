package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
)

const MaxStatsDays = 366

var ErrRangeTooLarge = errors.New("date range too large (max 366 days)")

var statTypes = []domain.GoalType{
	domain.GoalTypePages,
	domain.GoalTypeMinutes,
	domain.GoalTypeBooks,
	domain.GoalTypeDays,
}

type StatsService struct {
	logRepo domain.GoalLogRepository
}

func NewStatsService(logRepo domain.GoalLogRepository) *StatsService {
	return &StatsService{
		logRepo: logRepo,
	}
}

// GetDailyStats aggregates logs per goal type and UTC day over the closed range
// [StartDate, EndDate]. Days without logs are reported as 0.
func (s *StatsService) GetDailyStats(ctx context.Context, input domain.StatsInput) (*domain.DailyStats, error) {
	startDate := input.StartDate.UTC().Truncate(24 * time.Hour)
	endDate := input.EndDate.UTC().Truncate(24 * time.Hour)

	if endDate.Before(startDate) {
		return nil, ErrInvalidRange
	}
	if endDate.Sub(startDate) >= MaxStatsDays*24*time.Hour {
		return nil, ErrRangeTooLarge
	}

	logs, err := s.logRepo.ListByUserIDInRange(ctx, input.UserID, "", startDate, endDate.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	valuesMap := make(map[domain.GoalType]map[string]int)
	loggedMap := make(map[domain.GoalType]map[string]bool)
	activeDays := make(map[string]bool)

	for _, l := range logs {
		dateKey := l.CreatedAt.UTC().Format("2006-01-02")
		if _, exists := valuesMap[l.Type]; !exists {
			valuesMap[l.Type] = make(map[string]int)
			loggedMap[l.Type] = make(map[string]bool)
		}
		valuesMap[l.Type][dateKey] += l.Amount()
		loggedMap[l.Type][dateKey] = true
		activeDays[dateKey] = true
	}

	stats := &domain.DailyStats{
		StartDate:  startDate.Format("2006-01-02"),
		EndDate:    endDate.Format("2006-01-02"),
		TotalLogs:  len(logs),
		ActiveDays: len(activeDays),
		TypeStats:  make([]domain.TypeStat, 0, len(statTypes)),
	}

	for _, t := range statTypes {
		tStat := domain.TypeStat{
			Type:          t,
			DailyProgress: make([]int, 0),
		}

		currentDate := startDate
		for !currentDate.After(endDate) {
			dateKey := currentDate.Format("2006-01-02")

			val := valuesMap[t][dateKey]
			tStat.TotalValue += val
			tStat.DailyProgress = append(tStat.DailyProgress, val)

			if loggedMap[t][dateKey] {
				tStat.DaysLogged++
			}

			currentDate = currentDate.AddDate(0, 0, 1)
		}

		stats.TypeStats = append(stats.TypeStats, tStat)
	}

	return stats, nil
}
