package activity

import (
	"encoding/json"
	"math"
	"trainee_portal_backend/internal/model"
)

// WorkingDays 每周工作日数，周目标 = 日标准 × WorkingDays
const WorkingDays = 5

type Status string

const (
	StatusOnTrack Status = "on_track"
	StatusClose   Status = "close"
	StatusBehind  Status = "behind"
)

// StatusOf ≥100 达标，≥75 接近，其余落后
func StatusOf(pct int) Status {
	switch {
	case pct >= 100:
		return StatusOnTrack
	case pct >= 75:
		return StatusClose
	default:
		return StatusBehind
	}
}

// Ratio 分母为 0 时不适用，序列化为 null
type Ratio struct {
	Value      float64
	Applicable bool
}

// Rate 比值，用于每单位收入
func Rate(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Applicable: true}
}

// PercentRate 转化率，单位为百分比（10 表示 10%）
func PercentRate(num, den float64) Ratio {
	r := Rate(num, den)
	r.Value *= 100
	return r
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Applicable {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Funnel 三个转化率为百分比（0-100+），revenuePerUnit 为金额
type Funnel struct {
	CallToBooking    Ratio `json:"callToBooking"`
	BookingToMeeting Ratio `json:"bookingToMeeting"`
	CloseRate        Ratio `json:"closeRate"`
	RevenuePerUnit   Ratio `json:"revenuePerUnit"`
}

func FunnelOf(m model.ActivityMetrics) Funnel {
	return Funnel{
		CallToBooking:    PercentRate(m.Bookings, m.Calls),
		BookingToMeeting: PercentRate(m.Meetings, m.Bookings),
		CloseRate:        PercentRate(m.Units, m.Meetings),
		RevenuePerUnit:   Rate(m.Revenue, m.Units),
	}
}

// PercentToTarget 无目标时视为已完成，超过目标按 100 封顶
func PercentToTarget(actual, target float64) float64 {
	if target <= 0 {
		return 100
	}
	return math.Min(100, actual/target*100)
}

// CallsEfficiency 外呼量越接近目标（少于初期外呼量）得分越高。
// 初期外呼量不高于目标时退化为普通的完成率
func CallsEfficiency(actual, target, maxCalls float64) float64 {
	span := maxCalls - target
	if span <= 0 {
		return PercentToTarget(actual, target)
	}
	return clamp01((maxCalls-actual)/span) * 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

type MetricScore struct {
	Metric  model.Metric `json:"metric"`
	Actual  float64      `json:"actual"`
	Target  float64      `json:"target"`
	Percent float64      `json:"percent"`
}

// PeriodScore 某一时段（单日或整周）与标准的对比结果
type PeriodScore struct {
	Actual    model.ActivityMetrics `json:"actual"`
	Target    model.ActivityMetrics `json:"target"`
	Metrics   []MetricScore         `json:"metrics"`
	Aggregate int                   `json:"aggregate"`
	Status    Status                `json:"status"`
	Funnel    Funnel                `json:"funnel"`
}

// Compare maxCalls 需与 target 处于同一粒度（日或周）
func Compare(actual, target model.ActivityMetrics, maxCalls float64) PeriodScore {
	out := PeriodScore{
		Actual:  actual,
		Target:  target,
		Metrics: make([]MetricScore, 0, len(model.AllMetrics)),
		Funnel:  FunnelOf(actual),
	}
	sum := 0.0
	for _, m := range model.AllMetrics {
		a, t := actual.Get(m), target.Get(m)
		pct := PercentToTarget(a, t)
		if m == model.MetricCalls {
			pct = CallsEfficiency(a, t, maxCalls)
		}
		sum += pct
		out.Metrics = append(out.Metrics, MetricScore{Metric: m, Actual: a, Target: t, Percent: pct})
	}
	out.Aggregate = roundHalfUp(sum / float64(len(model.AllMetrics)))
	out.Status = StatusOf(out.Aggregate)
	return out
}

// WeekTotals 汇总落在该周范围内的记录，范围外的日期被忽略
func (c *Calendar) WeekTotals(index int, records []model.DailyActivity) model.ActivityMetrics {
	var total model.ActivityMetrics
	for _, r := range records {
		w, ok := c.WeekOf(r.Date)
		if !ok || w.Index != index {
			continue
		}
		total = total.Add(r.ActivityMetrics)
	}
	return total
}

func WeeklyTarget(daily model.ActivityMetrics) model.ActivityMetrics {
	return daily.Scale(WorkingDays)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
