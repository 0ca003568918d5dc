package model

import "time"

// ProgressSnapshot 学员清单进度快照，本地缓存与远端各持有一份
// swagger:model ProgressSnapshot
type ProgressSnapshot struct {
	TraineeSlug     string            `json:"traineeSlug"`
	TraineeName     string            `json:"traineeName"`
	CheckedItems    map[string]bool   `json:"checkedItems"`
	Notes           map[string]string `json:"notes"`
	OverallProgress int               `json:"overallProgress"`
	LastUpdated     time.Time         `json:"lastUpdated"`
}

func NewProgressSnapshot(slug, name string, now time.Time) *ProgressSnapshot {
	return &ProgressSnapshot{
		TraineeSlug:  slug,
		TraineeName:  name,
		CheckedItems: map[string]bool{},
		Notes:        map[string]string{},
		LastUpdated:  now,
	}
}

// Clone 深拷贝，避免多个持有者共享 map
func (p *ProgressSnapshot) Clone() *ProgressSnapshot {
	if p == nil {
		return nil
	}
	out := *p
	out.CheckedItems = make(map[string]bool, len(p.CheckedItems))
	for k, v := range p.CheckedItems {
		out.CheckedItems[k] = v
	}
	out.Notes = make(map[string]string, len(p.Notes))
	for k, v := range p.Notes {
		out.Notes[k] = v
	}
	return &out
}
