package service

import (
	"context"
	"time"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/domain/progress"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/pkg/debounce"
	"trainee_portal_backend/pkg/logger"
	"trainee_portal_backend/pkg/monitoring"
	"trainee_portal_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ModuleProgress struct {
	ModuleID string `json:"moduleId"`
	Title    string `json:"title"`
	Percent  int    `json:"percent"`
}

// ProgressView 学员进度页数据
type ProgressView struct {
	Snapshot *model.ProgressSnapshot `json:"snapshot"`
	Modules  []ModuleProgress        `json:"modules"`
	Sync     progress.SyncStatus     `json:"sync"`
}

type ToggleItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

type UpdateNoteRequest struct {
	ModuleID string `json:"moduleId" validate:"required"`
	Text     string `json:"text" validate:"max=10000"`
}

type ProgressService struct {
	Content *content.Store
	Repo    *repository.ProgressRepository
	Manager *progress.Manager
}

// NewProgressService clock 为 nil 时使用系统时钟
func NewProgressService(cfg config.SyncConfig, contentStore *content.Store, cache progress.LocalCache, repo *repository.ProgressRepository, clock debounce.Clock, pushTimeout time.Duration) *ProgressService {
	if clock == nil {
		clock = debounce.RealClock()
	}
	delay := cfg.DebounceMillis
	if delay <= 0 {
		delay = time.Second
	}

	manager := progress.NewManager(progress.Options{
		Cache:       cache,
		Remote:      &tracedRemote{inner: repo},
		Scheduler:   debounce.New(clock, delay),
		Clock:       clock,
		TiePolicy:   progress.TiePolicy(cfg.TiePolicy),
		PushTimeout: pushTimeout,
		Universe: func() *progress.Universe {
			return contentStore.Current().Universe
		},
		OnSync: func(err error) {
			monitoring.ProgressSyncs.WithLabelValues(monitoring.Outcome(err)).Inc()
		},
	})

	return &ProgressService{Content: contentStore, Repo: repo, Manager: manager}
}

func (s *ProgressService) session(slug string) (*progress.Session, error) {
	trainee, err := s.Content.Current().Trainee(slug)
	if err != nil {
		return nil, err
	}
	return s.Manager.Session(trainee.Slug, trainee.Name), nil
}

func (s *ProgressService) view(sess *progress.Session, snap *model.ProgressSnapshot) *ProgressView {
	catalog := s.Content.Current()
	v := &ProgressView{
		Snapshot: snap,
		Modules:  make([]ModuleProgress, 0, len(catalog.Modules)),
		Sync:     sess.Status(),
	}
	for _, m := range catalog.Modules {
		v.Modules = append(v.Modules, ModuleProgress{
			ModuleID: m.ID,
			Title:    m.Title,
			Percent:  catalog.Universe.ModuleProgress(snap.CheckedItems, m.ID),
		})
	}
	return v
}

// Load 合并本地缓存与远端快照
func (s *ProgressService) Load(ctx context.Context, slug string) (*ProgressView, error) {
	sess, err := s.session(slug)
	if err != nil {
		return nil, err
	}
	return s.view(sess, sess.Load(ctx)), nil
}

func (s *ProgressService) ToggleItem(ctx context.Context, slug string, req ToggleItemRequest) (*ProgressView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	sess, err := s.session(slug)
	if err != nil {
		return nil, err
	}
	snap, err := sess.ToggleItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	return s.view(sess, snap), nil
}

func (s *ProgressService) UpdateNote(ctx context.Context, slug string, req UpdateNoteRequest) (*ProgressView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	sess, err := s.session(slug)
	if err != nil {
		return nil, err
	}
	snap, err := sess.UpdateNote(ctx, req.ModuleID, req.Text)
	if err != nil {
		return nil, err
	}
	return s.view(sess, snap), nil
}

// Reset 远端写入失败时本地已清空，返回 UpstreamUnavailable
func (s *ProgressService) Reset(ctx context.Context, slug string) (*ProgressView, error) {
	sess, err := s.session(slug)
	if err != nil {
		return nil, err
	}
	snap, err := sess.Reset(ctx)
	if err != nil {
		logger.Log.Warn("Progress reset not confirmed by remote store", zap.String("trainee", slug), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("Progress reset", zap.String("trainee", slug))
	return s.view(sess, snap), nil
}

func (s *ProgressService) Status(slug string) (progress.SyncStatus, error) {
	sess, err := s.session(slug)
	if err != nil {
		return progress.SyncStatus{}, err
	}
	return sess.Status(), nil
}

// Overview 管理端：所有学员的远端快照，按当前内容重新计算总体进度
func (s *ProgressService) Overview(ctx context.Context) ([]model.ProgressSnapshot, error) {
	snaps, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	universe := s.Content.Current().Universe
	for i := range snaps {
		snaps[i].OverallProgress = universe.OverallProgress(snaps[i].CheckedItems)
	}
	return snaps, nil
}

// Flush 退出前推送所有待同步的变更
func (s *ProgressService) Flush() int {
	n := s.Manager.FlushAll()
	if n > 0 {
		logger.Log.Info("Flushed pending progress writes", zap.Int("count", n))
	}
	return n
}

// tracedRemote 为远端读写添加 span
type tracedRemote struct {
	inner progress.RemoteStore
}

func (r *tracedRemote) Fetch(ctx context.Context, slug string) (snap *model.ProgressSnapshot, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.Fetch", attribute.String("trainee.slug", slug))
	defer func() { tracing.EndSpan(span, err) }()
	return r.inner.Fetch(ctx, slug)
}

func (r *tracedRemote) Push(ctx context.Context, snap *model.ProgressSnapshot) (err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.Push",
		attribute.String("trainee.slug", snap.TraineeSlug),
		attribute.Int("progress.overall", snap.OverallProgress))
	defer func() { tracing.EndSpan(span, err) }()
	return r.inner.Push(ctx, snap)
}
