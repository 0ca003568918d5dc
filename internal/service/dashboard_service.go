package service

import (
	"context"
	"sync"
	"time"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/domain/activity"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// TraineePerformance 单个学员当日与本周的完成度
type TraineePerformance struct {
	Slug            string              `json:"slug"`
	Name            string              `json:"name"`
	TodayAggregate  int                 `json:"todayAggregate"`
	TodayStatus     activity.Status     `json:"todayStatus"`
	WeeklyAggregate int                 `json:"weeklyAggregate"`
	WeeklyStatus    activity.Status     `json:"weeklyStatus"`
	Scorecard       *activity.Scorecard `json:"scorecard,omitempty"`
	Error           string              `json:"error,omitempty"`
}

type PerformanceSummary struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	WeekIndex   int                  `json:"weekIndex"`
	WeekLabel   string               `json:"weekLabel"`
	Phase       string               `json:"phase"`
	Trainees    []TraineePerformance `json:"trainees"`
}

// DashboardService 管理端业绩总览，后台定时刷新并缓存
type DashboardService struct {
	Content  *content.Store
	Activity *repository.ActivityRepository
	MaxAge   time.Duration
	Now      func() time.Time

	mu     sync.RWMutex
	cached *PerformanceSummary
}

func NewDashboardService(contentStore *content.Store, activityRepo *repository.ActivityRepository, maxAge time.Duration) *DashboardService {
	if maxAge <= 0 {
		maxAge = time.Minute
	}
	return &DashboardService{
		Content:  contentStore,
		Activity: activityRepo,
		MaxAge:   maxAge,
		Now:      time.Now,
	}
}

// Refresh 重新计算所有学员的业绩；单个学员读取失败不影响其他学员
func (s *DashboardService) Refresh(ctx context.Context) *PerformanceSummary {
	catalog := s.Content.Current()
	cal := catalog.Calendar
	now := s.Now()
	index := cal.CurrentWeek(now)

	summary := &PerformanceSummary{
		GeneratedAt: now.UTC(),
		WeekIndex:   index,
		Phase:       cal.Phase(index),
		Trainees:    make([]TraineePerformance, 0, len(catalog.Trainees)),
	}
	if w, ok := cal.Week(index); ok {
		summary.WeekLabel = w.Label
	}

	for _, t := range catalog.Trainees {
		perf := TraineePerformance{Slug: t.Slug, Name: t.Name}
		sc, err := buildScorecard(ctx, s.Activity, cal, t, now)
		if err != nil {
			logger.Log.Warn("Failed to load trainee performance", zap.String("trainee", t.Slug), zap.Error(err))
			perf.Error = "activity unavailable"
			empty := cal.BuildScorecard(now, model.ActivityMetrics{}, nil)
			sc = &empty
		}
		perf.Scorecard = sc
		perf.TodayAggregate, perf.TodayStatus = sc.Today.Aggregate, sc.Today.Status
		perf.WeeklyAggregate, perf.WeeklyStatus = sc.Week.Aggregate, sc.Week.Status
		summary.Trainees = append(summary.Trainees, perf)
	}

	s.mu.Lock()
	s.cached = summary
	s.mu.Unlock()
	return summary
}

// Summary 缓存过期或为空时同步刷新
func (s *DashboardService) Summary(ctx context.Context) *PerformanceSummary {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil && s.Now().Sub(cached.GeneratedAt) < s.MaxAge {
		return cached
	}
	return s.Refresh(ctx)
}

// Run 按 interval 周期刷新，直到 ctx 取消
func (s *DashboardService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
