package repository

import (
	"context"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
)

// ActivityRepository 每日活动记录，(trainee_slug, date) 唯一
type ActivityRepository struct {
	Store RecordStore
	Table string
}

func NewActivityRepository(store RecordStore, table string) *ActivityRepository {
	return &ActivityRepository{Store: store, Table: table}
}

// Get 当天没有记录时返回 (nil, nil)
func (r *ActivityRepository) Get(ctx context.Context, slug, date string) (*model.DailyActivity, error) {
	records, err := r.Store.Find(ctx, r.Table, Criteria{
		Equals: map[string]interface{}{"trainee_slug": slug, "date": date},
		Limit:  1,
	})
	if err != nil {
		return nil, util.Upstream("find daily activity", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	a := activityFromRecord(records[0])
	return &a, nil
}

// Range 闭区间 [from, to] 内的记录，按日期升序
func (r *ActivityRepository) Range(ctx context.Context, slug, from, to string) ([]model.DailyActivity, error) {
	records, err := r.Store.Find(ctx, r.Table, Criteria{
		Equals:    map[string]interface{}{"trainee_slug": slug},
		Ranges:    []Range{{Field: "date", From: from, To: to}},
		SortField: "date",
	})
	if err != nil {
		return nil, util.Upstream("find daily activity", err)
	}
	out := make([]model.DailyActivity, 0, len(records))
	for _, rec := range records {
		out = append(out, activityFromRecord(rec))
	}
	return out, nil
}

// List 管理端活动列表，slug 为空时返回全部学员，按日期倒序
func (r *ActivityRepository) List(ctx context.Context, slug string) ([]model.DailyActivity, error) {
	eq := map[string]interface{}{}
	if slug != "" {
		eq["trainee_slug"] = slug
	}
	records, err := r.Store.Find(ctx, r.Table, Criteria{Equals: eq, SortField: "date", SortDesc: true})
	if err != nil {
		return nil, util.Upstream("list daily activity", err)
	}
	out := make([]model.DailyActivity, 0, len(records))
	for _, rec := range records {
		out = append(out, activityFromRecord(rec))
	}
	return out, nil
}

// Save 已有 ID 时就地更新，否则创建
func (r *ActivityRepository) Save(ctx context.Context, a *model.DailyActivity) error {
	fields := activityFields(a)
	if a.ID != "" {
		if _, err := r.Store.Update(ctx, r.Table, a.ID, fields); err != nil {
			return util.Upstream("update daily activity", err)
		}
		return nil
	}
	rec, err := r.Store.Create(ctx, r.Table, fields)
	if err != nil {
		return util.Upstream("create daily activity", err)
	}
	a.ID = rec.ID
	return nil
}

func activityFields(a *model.DailyActivity) map[string]interface{} {
	return map[string]interface{}{
		"trainee_slug": a.TraineeSlug,
		"trainee_name": a.TraineeName,
		"date":         a.Date,
		"calls":        a.Calls,
		"bookings":     a.Bookings,
		"meetings":     a.Meetings,
		"units":        a.Units,
		"revenue":      a.Revenue,
		"last_updated": formatTime(a.LastUpdated),
	}
}

func activityFromRecord(rec Record) model.DailyActivity {
	f := rec.Fields
	a := model.DailyActivity{
		ID:          rec.ID,
		TraineeSlug: asString(f["trainee_slug"]),
		TraineeName: asString(f["trainee_name"]),
		Date:        asString(f["date"]),
		ActivityMetrics: model.ActivityMetrics{
			Calls:    asFloat(f["calls"]),
			Bookings: asFloat(f["bookings"]),
			Meetings: asFloat(f["meetings"]),
			Units:    asFloat(f["units"]),
			Revenue:  asFloat(f["revenue"]),
		},
	}
	if t, ok := parseTime(f["last_updated"]); ok {
		a.LastUpdated = t
	}
	return a
}
