package configwatcher

import (
	"context"
	"path/filepath"
	"time"
	"trainee_portal_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 文件变更稳定后调用，返回错误时保留旧配置
type Reloader func() error

// Watch 监听文件写入，delay 内的连续写入只触发一次 reload；ctx 取消后退出
func Watch(ctx context.Context, path string, delay time.Duration, reload Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// 监听所在目录，编辑器以 rename 方式保存时文件句柄会变化
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// 防抖处理
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(delay)
			}
		case <-timer.C:
			if err := reload(); err != nil {
				logger.Log.Error("Failed to reload file", zap.String("path", absPath), zap.Error(err))
				continue
			}
			logger.Log.Info("File reloaded", zap.String("path", absPath))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("File watcher error", zap.Error(err))
		}
	}
}
