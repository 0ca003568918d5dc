package content

import (
	"context"
	"sync"
	"time"
	"trainee_portal_backend/pkg/configwatcher"
	"trainee_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// Store 持有当前生效的 Catalog，支持文件变更后热加载
type Store struct {
	path string

	mu        sync.RWMutex
	current   *Catalog
	listeners []func(*Catalog)
}

func NewStore(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, current: c}, nil
}

// NewStaticStore 使用已构建的 Catalog，不关联文件
func NewStaticStore(c *Catalog) *Store {
	return &Store{current: c}
}

func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnReload 注册热加载回调
func (s *Store) OnReload(fn func(*Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload 重新读取文件；校验失败时保留旧内容
func (s *Store) Reload() error {
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = c
	listeners := append([]func(*Catalog){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
	logger.Log.Info("Training content reloaded",
		zap.Int("trainees", len(c.Trainees)),
		zap.Int("modules", len(c.Modules)),
		zap.Int("exams", len(c.Exams)))
	return nil
}

// Watch 阻塞直到 ctx 取消
func (s *Store) Watch(ctx context.Context) {
	if s.path == "" {
		return
	}
	if err := configwatcher.Watch(ctx, s.path, time.Second, s.Reload); err != nil {
		logger.Log.Error("Content watcher stopped", zap.Error(err))
	}
}
