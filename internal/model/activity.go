package model

import (
	"fmt"
	"time"
)

type Metric string

const (
	MetricCalls    Metric = "calls"
	MetricBookings Metric = "bookings"
	MetricMeetings Metric = "meetings"
	MetricUnits    Metric = "units"
	MetricRevenue  Metric = "revenue"
)

// AllMetrics 按漏斗顺序排列
var AllMetrics = []Metric{MetricCalls, MetricBookings, MetricMeetings, MetricUnits, MetricRevenue}

func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

type ActivityMetrics struct {
	Calls    float64 `mapstructure:"calls" json:"calls"`
	Bookings float64 `mapstructure:"bookings" json:"bookings"`
	Meetings float64 `mapstructure:"meetings" json:"meetings"`
	Units    float64 `mapstructure:"units" json:"units"`
	Revenue  float64 `mapstructure:"revenue" json:"revenue"`
}

func (a ActivityMetrics) Get(m Metric) float64 {
	switch m {
	case MetricCalls:
		return a.Calls
	case MetricBookings:
		return a.Bookings
	case MetricMeetings:
		return a.Meetings
	case MetricUnits:
		return a.Units
	case MetricRevenue:
		return a.Revenue
	}
	return 0
}

func (a *ActivityMetrics) Set(m Metric, v float64) {
	switch m {
	case MetricCalls:
		a.Calls = v
	case MetricBookings:
		a.Bookings = v
	case MetricMeetings:
		a.Meetings = v
	case MetricUnits:
		a.Units = v
	case MetricRevenue:
		a.Revenue = v
	}
}

func (a ActivityMetrics) Add(o ActivityMetrics) ActivityMetrics {
	return ActivityMetrics{
		Calls:    a.Calls + o.Calls,
		Bookings: a.Bookings + o.Bookings,
		Meetings: a.Meetings + o.Meetings,
		Units:    a.Units + o.Units,
		Revenue:  a.Revenue + o.Revenue,
	}
}

func (a ActivityMetrics) Scale(k float64) ActivityMetrics {
	return ActivityMetrics{
		Calls:    a.Calls * k,
		Bookings: a.Bookings * k,
		Meetings: a.Meetings * k,
		Units:    a.Units * k,
		Revenue:  a.Revenue * k,
	}
}

// DailyActivity 每个学员每天至多一条，写入时就地更新
// swagger:model DailyActivity
type DailyActivity struct {
	ID          string    `json:"id,omitempty"`
	TraineeSlug string    `json:"traineeSlug"`
	TraineeName string    `json:"traineeName"`
	Date        string    `json:"date"` // YYYY-MM-DD，学员本地日期
	LastUpdated time.Time `json:"lastUpdated"`
	ActivityMetrics
}
