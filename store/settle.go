package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Settler 在文件系统修改之后等待变更事件到达，再通知调用方刷新缓存。
// 事件全部到达即返回；最长等待 delay。
type Settler struct {
	delay  time.Duration
	logger *slog.Logger
}

func NewSettler(delay time.Duration, logger *slog.Logger) *Settler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Settler{delay: delay, logger: logger}
}

// Await 执行 apply，并等待 paths 上的变更事件。
// apply 成功之后 ctx 取消只结束等待，不再视为错误。
func (s *Settler) Await(ctx context.Context, paths []string, apply func() error) error {
	if s.delay <= 0 || len(paths) == 0 {
		return apply()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Debug("fsnotify unavailable, falling back to fixed delay", "err", err)
		if err := apply(); err != nil {
			return err
		}
		s.sleep(ctx)
		return nil
	}
	defer func() { _ = fsw.Close() }()

	pending := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		pending[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			s.logger.Debug("could not add to watch", "path", dir, "err", err)
		}
	}

	if err := apply(); err != nil {
		return err
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			s.logger.Debug("settle wait interrupted", "err", ctx.Err(), "pending", len(pending))
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				delete(pending, filepath.Clean(ev.Name))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("fsnotify error", "err", err)
		case <-timer.C:
			s.logger.Debug("settle delay elapsed", "pending", len(pending))
			return nil
		}
	}
	return nil
}

func (s *Settler) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(s.delay):
	}
}
