package service

import (
	"context"
	"time"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/domain/activity"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/keylock"
	"trainee_portal_backend/pkg/logger"
	"trainee_portal_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type IncrementRequest struct {
	Metric string   `json:"metric" validate:"required,oneof=calls bookings meetings units revenue"`
	Amount *float64 `json:"amount"` // 默认 1，可为负数用于撤销
}

type SetMetricRequest struct {
	Metric string  `json:"metric" validate:"required,oneof=calls bookings meetings units revenue"`
	Value  float64 `json:"value" validate:"min=0"`
}

// WeekActivity 某培训周的每日记录与汇总
type WeekActivity struct {
	Week    model.ProgramWeek     `json:"week"`
	Records []model.DailyActivity `json:"records"`
	Totals  model.ActivityMetrics `json:"weeklyTotals"`
	Target  model.ActivityMetrics `json:"weeklyTarget"`
}

type ActivityService struct {
	Content *content.Store
	Repo    *repository.ActivityRepository
	Now     func() time.Time

	// 同一学员同一天的读改写串行执行
	locks *keylock.Locker
}

func NewActivityService(contentStore *content.Store, repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		Content: contentStore,
		Repo:    repo,
		Now:     time.Now,
		locks:   keylock.New(),
	}
}

// Today 当天尚无记录时返回全零记录（不落库）
func (s *ActivityService) Today(ctx context.Context, slug string) (*model.DailyActivity, error) {
	catalog := s.Content.Current()
	trainee, err := catalog.Trainee(slug)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, trainee, catalog.Calendar.Today(s.Now()))
}

func (s *ActivityService) load(ctx context.Context, trainee model.Trainee, date string) (*model.DailyActivity, error) {
	rec, err := s.Repo.Get(ctx, trainee.Slug, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &model.DailyActivity{TraineeSlug: trainee.Slug, TraineeName: trainee.Name, Date: date}
	}
	return rec, nil
}

// Increment 在当天记录上累加，结果不能为负
func (s *ActivityService) Increment(ctx context.Context, slug string, req IncrementRequest) (*model.DailyActivity, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	amount := 1.0
	if req.Amount != nil {
		amount = *req.Amount
	}
	metric, _ := model.ParseMetric(req.Metric)

	return s.update(ctx, slug, metric, func(current float64) (float64, error) {
		next := current + amount
		if next < 0 {
			return 0, util.Validationf("%s cannot go below zero", metric)
		}
		return next, nil
	})
}

// Set 直接设置当天某项指标（如营收）
func (s *ActivityService) Set(ctx context.Context, slug string, req SetMetricRequest) (*model.DailyActivity, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	metric, _ := model.ParseMetric(req.Metric)

	return s.update(ctx, slug, metric, func(float64) (float64, error) {
		return req.Value, nil
	})
}

func (s *ActivityService) update(ctx context.Context, slug string, metric model.Metric, apply func(float64) (float64, error)) (*model.DailyActivity, error) {
	catalog := s.Content.Current()
	trainee, err := catalog.Trainee(slug)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	date := catalog.Calendar.Today(now)

	unlock := s.locks.Lock(trainee.Slug + "|" + date)
	defer unlock()

	rec, err := s.load(ctx, trainee, date)
	if err != nil {
		return nil, err
	}
	next, err := apply(rec.Get(metric))
	if err != nil {
		return nil, err
	}
	rec.Set(metric, next)
	rec.TraineeName = trainee.Name
	rec.LastUpdated = now.UTC().Truncate(time.Millisecond)

	if err := s.Repo.Save(ctx, rec); err != nil {
		logger.Log.Error("Failed to save daily activity",
			zap.String("trainee", trainee.Slug),
			zap.String("date", date),
			zap.Error(err))
		return nil, err
	}
	monitoring.ActivityUpdates.WithLabelValues(string(metric)).Inc()
	return rec, nil
}

// Week index 为 nil 时取当前周
func (s *ActivityService) Week(ctx context.Context, slug string, index *int) (*WeekActivity, error) {
	catalog := s.Content.Current()
	trainee, err := catalog.Trainee(slug)
	if err != nil {
		return nil, err
	}
	cal := catalog.Calendar
	i := cal.CurrentWeek(s.Now())
	if index != nil {
		i = *index
	}
	week, ok := cal.Week(i)
	if !ok {
		return nil, util.NotFoundf("program week %d", i)
	}

	records, err := s.Repo.Range(ctx, trainee.Slug, week.StartStr, week.EndStr)
	if err != nil {
		return nil, err
	}
	return &WeekActivity{
		Week:    week,
		Records: records,
		Totals:  cal.WeekTotals(week.Index, records),
		Target:  activity.WeeklyTarget(week.Standard),
	}, nil
}

// Scorecard 当日与本周对照标准的完成情况
func (s *ActivityService) Scorecard(ctx context.Context, slug string) (*activity.Scorecard, error) {
	catalog := s.Content.Current()
	trainee, err := catalog.Trainee(slug)
	if err != nil {
		return nil, err
	}
	return buildScorecard(ctx, s.Repo, catalog.Calendar, trainee, s.Now())
}

// List 管理端活动记录，按日期倒序
func (s *ActivityService) List(ctx context.Context, slug string) ([]model.DailyActivity, error) {
	if slug != "" {
		if _, err := s.Content.Current().Trainee(slug); err != nil {
			return nil, err
		}
	}
	return s.Repo.List(ctx, slug)
}

func buildScorecard(ctx context.Context, repo *repository.ActivityRepository, cal *activity.Calendar, trainee model.Trainee, now time.Time) (*activity.Scorecard, error) {
	var today model.ActivityMetrics
	rec, err := repo.Get(ctx, trainee.Slug, cal.Today(now))
	if err != nil {
		return nil, err
	}
	if rec != nil {
		today = rec.ActivityMetrics
	}

	var records []model.DailyActivity
	if week, ok := cal.Week(cal.CurrentWeek(now)); ok {
		records, err = repo.Range(ctx, trainee.Slug, week.StartStr, week.EndStr)
		if err != nil {
			return nil, err
		}
	}

	sc := cal.BuildScorecard(now, today, records)
	return &sc, nil
}
