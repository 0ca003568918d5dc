// Package activity 将每日活动数据与培训周标准进行对比
package activity

import (
	"fmt"
	"sort"
	"time"
	"trainee_portal_backend/internal/model"
)

const dateLayout = "2006-01-02"

// Calendar 培训日历：把时间点换算为学员本地日期和培训周
type Calendar struct {
	loc   *time.Location
	weeks []model.ProgramWeek
}

// NewCalendar 解析各周的起止日期，按周序号排序
func NewCalendar(loc *time.Location, weeks []model.ProgramWeek) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]model.ProgramWeek, len(weeks))
	copy(out, weeks)
	for i := range out {
		w := &out[i]
		start, err := time.ParseInLocation(dateLayout, w.StartStr, loc)
		if err != nil {
			return nil, fmt.Errorf("week %d start: %w", w.Index, err)
		}
		end, err := time.ParseInLocation(dateLayout, w.EndStr, loc)
		if err != nil {
			return nil, fmt.Errorf("week %d end: %w", w.Index, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("week %d ends before it starts", w.Index)
		}
		w.Start, w.End = start, end
		w.StartStr, w.EndStr = start.Format(dateLayout), end.Format(dateLayout)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	for i := 1; i < len(out); i++ {
		if out[i].Index == out[i-1].Index {
			return nil, fmt.Errorf("duplicate week index %d", out[i].Index)
		}
		if !out[i].Start.After(out[i-1].End) {
			return nil, fmt.Errorf("week %d overlaps week %d", out[i].Index, out[i-1].Index)
		}
	}
	return &Calendar{loc: loc, weeks: out}, nil
}

func (c *Calendar) Location() *time.Location { return c.loc }

func (c *Calendar) Weeks() []model.ProgramWeek { return c.weeks }

// Today 学员本地日期 YYYY-MM-DD
func (c *Calendar) Today(now time.Time) string {
	return now.In(c.loc).Format(dateLayout)
}

// ParseDate 校验并规范化日期字符串
func (c *Calendar) ParseDate(s string) (string, error) {
	t, err := time.ParseInLocation(dateLayout, s, c.loc)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// WeekOf 返回日期所在的培训周；不在任何周范围内时 ok 为 false
func (c *Calendar) WeekOf(date string) (model.ProgramWeek, bool) {
	for _, w := range c.weeks {
		if date >= w.StartStr && date <= w.EndStr {
			return w, true
		}
	}
	return model.ProgramWeek{}, false
}

// CurrentWeek 已激活（开始日前一天起）的最大周序号，没有则为 0
func (c *Calendar) CurrentWeek(now time.Time) int {
	today := c.Today(now)
	current := 0
	for _, w := range c.weeks {
		activation := w.Start.AddDate(0, 0, -1).Format(dateLayout)
		if today >= activation && w.Index > current {
			current = w.Index
		}
	}
	return current
}

func (c *Calendar) Week(index int) (model.ProgramWeek, bool) {
	for _, w := range c.weeks {
		if w.Index == index {
			return w, true
		}
	}
	return model.ProgramWeek{}, false
}

// DailyStandard 未配置的周沿用最后一个配置周的标准
func (c *Calendar) DailyStandard(index int) model.ActivityMetrics {
	if w, ok := c.Week(index); ok {
		return w.Standard
	}
	if len(c.weeks) == 0 {
		return model.ActivityMetrics{}
	}
	return c.weeks[len(c.weeks)-1].Standard
}

// MaxCalls 培训初期的每日外呼量：第一个设置了外呼标准的周
func (c *Calendar) MaxCalls() float64 {
	for _, w := range c.weeks {
		if w.Standard.Calls > 0 {
			return w.Standard.Calls
		}
	}
	return 0
}

// DayName Monday..Friday，周末返回 Weekend
func (c *Calendar) DayName(now time.Time) string {
	switch d := now.In(c.loc).Weekday(); d {
	case time.Saturday, time.Sunday:
		return "Weekend"
	default:
		return d.String()
	}
}

// Phase 周阶段，未配置时按序号推断
func (c *Calendar) Phase(index int) string {
	if w, ok := c.Week(index); ok && w.Phase != "" {
		return w.Phase
	}
	switch {
	case index == 0:
		return PhaseTraining
	case len(c.weeks) > 0 && index > c.weeks[len(c.weeks)-1].Index:
		return PhaseMaintain
	default:
		return PhaseRamp
	}
}

const (
	PhaseTraining = "training"
	PhaseRamp     = "ramp"
	PhaseStandard = "standard"
	PhaseMaintain = "maintain"
)
