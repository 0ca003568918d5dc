package progress

import (
	"context"
	"sync"
	"time"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/debounce"
	"trainee_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// LocalCache 学员快照的本地缓存；不存在时返回 (nil, nil)，内容损坏时返回错误
type LocalCache interface {
	Load(ctx context.Context, slug string) (*model.ProgressSnapshot, error)
	Save(ctx context.Context, snapshot *model.ProgressSnapshot) error
}

// RemoteStore 远端权威副本；没有记录时返回 (nil, nil)
type RemoteStore interface {
	Fetch(ctx context.Context, slug string) (*model.ProgressSnapshot, error)
	Push(ctx context.Context, snapshot *model.ProgressSnapshot) error
}

// SyncStatus 远端同步状态，失败只体现为 syncing，不作为硬错误返回
type SyncStatus struct {
	Syncing      bool       `json:"syncing"`
	Pending      bool       `json:"pending"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}

type Options struct {
	Cache       LocalCache
	Remote      RemoteStore
	Scheduler   *debounce.Scheduler
	Clock       debounce.Clock
	TiePolicy   TiePolicy
	PushTimeout time.Duration
	Universe    func() *Universe
	// OnSync 每次远端写入完成后回调（用于指标统计）
	OnSync func(err error)
}

// Session 单个学员的有效快照；所有变更按调用顺序在锁内应用
type Session struct {
	slug string
	name string
	opts *Options

	mu        sync.Mutex
	effective *model.ProgressSnapshot
	loaded    bool
	dirty     bool // 存在尚未成功写入远端的变更
	status    SyncStatus

	// 加载时远端不可读：effective 只是基线 base 加上本地变更，
	// 推送前必须重新读取远端并把 touched 中的变更叠加上去
	reconciled   bool
	base         time.Time
	touchedItems map[string]bool
	touchedNotes map[string]bool

	// 保证远端写入串行，重置不会被更早的写入覆盖
	pushMu sync.Mutex
}

func newSession(slug, name string, opts *Options) *Session {
	return &Session{slug: slug, name: name, opts: opts}
}

func (s *Session) now() time.Time {
	return s.opts.Clock.Now().UTC().Truncate(time.Millisecond)
}

// Load 读取本地与远端快照并合并，远端失败时退回本地
func (s *Session) Load(ctx context.Context) *model.ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 有待同步的变更时内存中的快照就是最新的
	if s.loaded && s.opts.Scheduler.Pending(s.slug) {
		return s.snapshotLocked()
	}
	if s.loaded && !s.reconciled {
		s.retryReconcileLocked(ctx)
	} else {
		s.loadLocked(ctx)
	}
	return s.snapshotLocked()
}

func (s *Session) loadLocked(ctx context.Context) {
	local, err := s.opts.Cache.Load(ctx, s.slug)
	if err != nil {
		logger.Log.Warn("local progress cache unreadable, ignoring", zap.String("trainee", s.slug), zap.Error(err))
		local = nil
	}

	remote, err := s.opts.Remote.Fetch(ctx, s.slug)
	remoteOK := err == nil
	if err != nil {
		logger.Log.Warn("remote progress fetch failed, using local copy", zap.String("trainee", s.slug), zap.Error(err))
		s.status.LastError = err.Error()
		remote = nil
	}

	outcome := Reconcile(local, remote, s.opts.TiePolicy)
	if outcome.Effective == nil {
		if s.loaded && s.effective != nil {
			outcome.Effective = s.effective.Clone()
		} else {
			// 零时间戳：任何真实记录都比它新
			outcome.Effective = model.NewProgressSnapshot(s.slug, s.name, time.Time{})
		}
	}
	if outcome.Effective.TraineeName == "" {
		outcome.Effective.TraineeName = s.name
	}
	outcome.Effective.TraineeSlug = s.slug
	outcome.Effective.OverallProgress = s.opts.Universe().OverallProgress(outcome.Effective.CheckedItems)

	wasReconciled := s.loaded && s.reconciled
	s.effective = outcome.Effective
	s.loaded = true
	s.reconciled = remoteOK || wasReconciled
	if !s.reconciled {
		s.base = s.effective.LastUpdated
		s.touchedItems = map[string]bool{}
		s.touchedNotes = map[string]bool{}
	}

	if outcome.WriteLocal {
		s.saveLocalLocked(ctx)
	}
	if outcome.WriteRemote || !remoteOK {
		// 远端不可用时只标记，等下一次变更的防抖窗口再重试
		s.dirty = true
		s.status.Pending = true
	}
	if outcome.WriteRemote && remoteOK {
		s.opts.Scheduler.Schedule(s.slug, s.pushCurrent)
	}
}

// retryReconcileLocked 远端恢复后补做合并，失败时保持未核对状态
func (s *Session) retryReconcileLocked(ctx context.Context) {
	remote, err := s.opts.Remote.Fetch(ctx, s.slug)
	if err != nil {
		logger.Log.Warn("remote progress still unreachable", zap.String("trainee", s.slug), zap.Error(err))
		s.status.LastError = err.Error()
		return
	}
	s.adoptRemoteLocked(ctx, remote)
	if s.dirty {
		s.opts.Scheduler.Schedule(s.slug, s.pushCurrent)
	}
}

// adoptRemoteLocked 远端不旧于基线时以远端为底，叠加未核对期间本地改过的条目与笔记
func (s *Session) adoptRemoteLocked(ctx context.Context, remote *model.ProgressSnapshot) {
	items, notes := s.touchedItems, s.touchedNotes
	s.reconciled = true
	s.touchedItems, s.touchedNotes = nil, nil
	s.status.LastError = ""

	if remote == nil {
		if len(items) == 0 && len(notes) == 0 && s.base.IsZero() {
			s.dirty = false
		}
		return
	}
	if remote.LastUpdated.Before(s.base) {
		return
	}

	merged := remote.Clone()
	for id := range items {
		merged.CheckedItems[id] = s.effective.CheckedItems[id]
	}
	for moduleID := range notes {
		merged.Notes[moduleID] = s.effective.Notes[moduleID]
	}
	merged.TraineeSlug = s.slug
	if merged.TraineeName == "" {
		merged.TraineeName = s.name
	}
	if s.effective.LastUpdated.After(merged.LastUpdated) {
		merged.LastUpdated = s.effective.LastUpdated
	}
	merged.OverallProgress = s.opts.Universe().OverallProgress(merged.CheckedItems)

	s.effective = merged
	s.dirty = len(items) > 0 || len(notes) > 0
	s.saveLocalLocked(ctx)
}

func (s *Session) Snapshot() *model.ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Pending = s.dirty
	return st
}

// ToggleItem 翻转条目勾选状态，本地同步写入，远端防抖写入
func (s *Session) ToggleItem(ctx context.Context, itemID string) (*model.ProgressSnapshot, error) {
	universe := s.opts.Universe()
	if !universe.Contains(itemID) {
		return nil, util.NotFoundf("checklist item %q", itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	s.effective.CheckedItems[itemID] = !s.effective.CheckedItems[itemID]
	if !s.reconciled {
		s.touchedItems[itemID] = true
	}
	s.effective.OverallProgress = universe.OverallProgress(s.effective.CheckedItems)
	s.commitLocked(ctx)
	return s.snapshotLocked(), nil
}

// UpdateNote 更新模块笔记，不影响总体进度
func (s *Session) UpdateNote(ctx context.Context, moduleID, text string) (*model.ProgressSnapshot, error) {
	universe := s.opts.Universe()
	if !universe.HasModule(moduleID) {
		return nil, util.NotFoundf("module %q", moduleID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	s.effective.Notes[moduleID] = text
	if !s.reconciled {
		s.touchedNotes[moduleID] = true
	}
	s.effective.OverallProgress = universe.OverallProgress(s.effective.CheckedItems)
	s.commitLocked(ctx)
	return s.snapshotLocked(), nil
}

// Reset 清空全部勾选与笔记，不走防抖，返回前确认本地与远端均已写入
func (s *Session) Reset(ctx context.Context) (*model.ProgressSnapshot, error) {
	s.mu.Lock()
	s.opts.Scheduler.Cancel(s.slug)
	s.effective = model.NewProgressSnapshot(s.slug, s.name, s.now())
	s.loaded = true
	s.dirty = true
	// 重置覆盖远端的全部内容，不需要再与远端合并
	s.reconciled = true
	s.touchedItems, s.touchedNotes = nil, nil
	s.saveLocalLocked(ctx)
	s.mu.Unlock()

	if err := s.push(ctx); err != nil {
		// 交给防抖重试，退出时 FlushAll 也会推送
		s.opts.Scheduler.Schedule(s.slug, s.pushCurrent)
		return s.Snapshot(), util.Upstream("reset progress", err)
	}
	return s.Snapshot(), nil
}

func (s *Session) ModuleProgress(ctx context.Context, moduleID string) (int, error) {
	universe := s.opts.Universe()
	if !universe.HasModule(moduleID) {
		return 0, util.NotFoundf("module %q", moduleID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	return universe.ModuleProgress(s.effective.CheckedItems, moduleID), nil
}

// FlushPending 立即推送待同步的变更
func (s *Session) FlushPending() bool {
	return s.opts.Scheduler.Flush(s.slug)
}

// ensureLoadedLocked 首次变更前先完成本地与远端的合并，不能从空快照开始
func (s *Session) ensureLoadedLocked(ctx context.Context) {
	if !s.loaded {
		s.loadLocked(ctx)
	}
}

// retryIfDirty 推送已无计时器跟踪的失败写入，返回是否推送成功
func (s *Session) retryIfDirty() bool {
	s.mu.Lock()
	retry := s.dirty && !s.opts.Scheduler.Pending(s.slug)
	s.mu.Unlock()
	if !retry {
		return false
	}
	if err := s.pushWithTimeout(); err != nil {
		logger.Log.Warn("progress sync retry failed", zap.String("trainee", s.slug), zap.Error(err))
		return false
	}
	return true
}

func (s *Session) commitLocked(ctx context.Context) {
	s.effective.LastUpdated = s.now()
	s.dirty = true
	s.saveLocalLocked(ctx)
	s.opts.Scheduler.Schedule(s.slug, s.pushCurrent)
}

func (s *Session) saveLocalLocked(ctx context.Context) {
	snap := s.effective.Clone()
	if !s.reconciled {
		// 未核对的快照保留基线时间戳，重启后不会盖过远端的真实记录
		snap.LastUpdated = s.base
	}
	if err := s.opts.Cache.Save(ctx, snap); err != nil {
		logger.Log.Warn("failed to write local progress cache", zap.String("trainee", s.slug), zap.Error(err))
	}
}

func (s *Session) snapshotLocked() *model.ProgressSnapshot {
	if s.effective == nil {
		return model.NewProgressSnapshot(s.slug, s.name, s.now())
	}
	return s.effective.Clone()
}

// pushCurrent 防抖计时器触发时调用，推送触发时刻的最新状态
func (s *Session) pushCurrent() {
	if err := s.pushWithTimeout(); err != nil {
		logger.Log.Warn("progress sync failed, will retry on next change", zap.String("trainee", s.slug), zap.Error(err))
	}
}

func (s *Session) pushWithTimeout() error {
	ctx := context.Background()
	if s.opts.PushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PushTimeout)
		defer cancel()
	}
	return s.push(ctx)
}

func (s *Session) push(ctx context.Context) error {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.mu.Lock()
	if !s.reconciled {
		s.mu.Unlock()
		remote, err := s.opts.Remote.Fetch(ctx, s.slug)
		s.mu.Lock()
		if err != nil {
			// 远端状态未知时不能盲推，否则会用不完整的快照覆盖远端
			s.status.LastError = err.Error()
			s.mu.Unlock()
			if s.opts.OnSync != nil {
				s.opts.OnSync(err)
			}
			return err
		}
		if !s.reconciled {
			s.adoptRemoteLocked(ctx, remote)
		}
		if !s.dirty {
			s.mu.Unlock()
			return nil
		}
	}
	snap := s.snapshotLocked()
	s.status.Syncing = true
	s.mu.Unlock()

	err := s.opts.Remote.Push(ctx, snap)

	s.mu.Lock()
	s.status.Syncing = false
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
		at := s.now()
		s.status.LastSyncedAt = &at
		// 推送期间如有新变更，保持 dirty 等待下一次防抖
		if !s.effective.LastUpdated.After(snap.LastUpdated) {
			s.dirty = false
		}
	}
	s.mu.Unlock()

	if s.opts.OnSync != nil {
		s.opts.OnSync(err)
	}
	return err
}
