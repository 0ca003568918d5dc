// Package progress 负责清单进度的计算、本地/远端快照的合并以及防抖同步
package progress

import (
	"math"
	"trainee_portal_backend/internal/model"
)

// Universe 当前内容配置中全部有效的清单条目
type Universe struct {
	order   []string
	modules map[string][]string
	items   map[string]string // item id -> module id
}

func NewUniverse(modules []model.Module) *Universe {
	u := &Universe{
		modules: make(map[string][]string, len(modules)),
		items:   make(map[string]string),
	}
	for i := range modules {
		m := &modules[i]
		ids := m.ChecklistIDs()
		u.order = append(u.order, m.ID)
		u.modules[m.ID] = ids
		for _, id := range ids {
			u.items[id] = m.ID
		}
	}
	return u
}

func (u *Universe) Contains(itemID string) bool {
	_, ok := u.items[itemID]
	return ok
}

func (u *Universe) HasModule(moduleID string) bool {
	_, ok := u.modules[moduleID]
	return ok
}

func (u *Universe) ModuleIDs() []string {
	return u.order
}

func (u *Universe) ModuleItems(moduleID string) []string {
	return u.modules[moduleID]
}

func (u *Universe) Total() int {
	return len(u.items)
}

// ModuleProgress 模块内已勾选比例，模块无条目时为 0
func (u *Universe) ModuleProgress(checked map[string]bool, moduleID string) int {
	return ratio(countChecked(checked, u.modules[moduleID]), len(u.modules[moduleID]))
}

// OverallProgress 只统计当前配置中的条目，已下线的旧条目不计入分子和分母
func (u *Universe) OverallProgress(checked map[string]bool) int {
	n := 0
	for id := range u.items {
		if checked[id] {
			n++
		}
	}
	return ratio(n, len(u.items))
}

func countChecked(checked map[string]bool, ids []string) int {
	n := 0
	for _, id := range ids {
		if checked[id] {
			n++
		}
	}
	return n
}

func ratio(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}
