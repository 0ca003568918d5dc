package activity

import (
	"time"
	"trainee_portal_backend/internal/model"
)

// Scorecard 学员当日与本周的达标情况
type Scorecard struct {
	Date           string                `json:"date"`
	DayName        string                `json:"dayName"`
	WeekIndex      int                   `json:"weekIndex"`
	WeekLabel      string                `json:"weekLabel"`
	Phase          string                `json:"phase"`
	WeekStart      string                `json:"weekStart,omitempty"`
	WeekEnd        string                `json:"weekEnd,omitempty"`
	DailyStandard  model.ActivityMetrics `json:"dailyStandard"`
	WeeklyStandard model.ActivityMetrics `json:"weeklyStandard"`
	Today          PeriodScore           `json:"today"`
	Week           PeriodScore           `json:"week"`
}

// BuildScorecard weekRecords 可以包含本周以外的记录，汇总时会被排除
func (c *Calendar) BuildScorecard(now time.Time, today model.ActivityMetrics, weekRecords []model.DailyActivity) Scorecard {
	index := c.CurrentWeek(now)
	daily := c.DailyStandard(index)
	weekly := WeeklyTarget(daily)
	maxCalls := c.MaxCalls()

	sc := Scorecard{
		Date:           c.Today(now),
		DayName:        c.DayName(now),
		WeekIndex:      index,
		Phase:          c.Phase(index),
		DailyStandard:  daily,
		WeeklyStandard: weekly,
		Today:          Compare(today, daily, maxCalls),
		Week:           Compare(c.WeekTotals(index, weekRecords), weekly, maxCalls*WorkingDays),
	}
	if w, ok := c.Week(index); ok {
		sc.WeekLabel = w.Label
		sc.WeekStart, sc.WeekEnd = w.StartStr, w.EndStr
	}
	return sc
}
