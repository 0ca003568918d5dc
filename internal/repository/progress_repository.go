package repository

import (
	"context"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProgressRepository 远端进度快照，每个学员一条记录
type ProgressRepository struct {
	Store RecordStore
	Table string
}

func NewProgressRepository(store RecordStore, table string) *ProgressRepository {
	return &ProgressRepository{Store: store, Table: table}
}

// Fetch 没有记录时返回 (nil, nil)；记录内容损坏时按不存在处理
func (r *ProgressRepository) Fetch(ctx context.Context, slug string) (*model.ProgressSnapshot, error) {
	rec, err := r.findOne(ctx, slug)
	if err != nil || rec == nil {
		return nil, err
	}
	snap, ok := snapshotFromRecord(*rec)
	if !ok {
		logger.Log.Warn("corrupt remote progress record ignored", zap.String("trainee", slug), zap.String("record", rec.ID))
		return nil, nil
	}
	return snap, nil
}

// Push 按 trainee_slug 查找后更新，不存在则创建
func (r *ProgressRepository) Push(ctx context.Context, snap *model.ProgressSnapshot) error {
	rec, err := r.findOne(ctx, snap.TraineeSlug)
	if err != nil {
		return err
	}
	fields := snapshotFields(snap)
	if rec != nil {
		_, err = r.Store.Update(ctx, r.Table, rec.ID, fields)
	} else {
		_, err = r.Store.Create(ctx, r.Table, fields)
	}
	if err != nil {
		return util.Upstream("save progress", err)
	}
	return nil
}

// ListAll 管理端总览：所有学员的远端快照
func (r *ProgressRepository) ListAll(ctx context.Context) ([]model.ProgressSnapshot, error) {
	records, err := r.Store.Find(ctx, r.Table, Criteria{SortField: "trainee_slug"})
	if err != nil {
		return nil, util.Upstream("list progress", err)
	}
	out := make([]model.ProgressSnapshot, 0, len(records))
	for _, rec := range records {
		if snap, ok := snapshotFromRecord(rec); ok {
			out = append(out, *snap)
		}
	}
	return out, nil
}

func (r *ProgressRepository) findOne(ctx context.Context, slug string) (*Record, error) {
	records, err := r.Store.Find(ctx, r.Table, Criteria{
		Equals:    map[string]interface{}{"trainee_slug": slug},
		SortField: "last_updated",
		SortDesc:  true,
		Limit:     1,
	})
	if err != nil {
		return nil, util.Upstream("find progress", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func snapshotFields(s *model.ProgressSnapshot) map[string]interface{} {
	return map[string]interface{}{
		"trainee_slug":     s.TraineeSlug,
		"trainee_name":     s.TraineeName,
		"checked_items":    encodeJSONField(s.CheckedItems),
		"notes":            encodeJSONField(s.Notes),
		"overall_progress": s.OverallProgress,
		"last_updated":     formatTime(s.LastUpdated),
	}
}

func snapshotFromRecord(rec Record) (*model.ProgressSnapshot, bool) {
	f := rec.Fields
	updated, ok := parseTime(f["last_updated"])
	if !ok {
		return nil, false
	}
	snap := model.NewProgressSnapshot(asString(f["trainee_slug"]), asString(f["trainee_name"]), updated)
	if err := decodeJSONField(f["checked_items"], &snap.CheckedItems); err != nil {
		return nil, false
	}
	if err := decodeJSONField(f["notes"], &snap.Notes); err != nil {
		return nil, false
	}
	if snap.CheckedItems == nil {
		snap.CheckedItems = map[string]bool{}
	}
	if snap.Notes == nil {
		snap.Notes = map[string]string{}
	}
	snap.OverallProgress = asInt(f["overall_progress"])
	return snap, true
}
