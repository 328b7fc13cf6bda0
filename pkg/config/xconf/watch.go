package xconf

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
)

// Watch 监听配置文件变更，变更后自动 Reload 并调用 onChange。
//
// 监听目录而非文件：常见的原子写（写临时文件后 rename）会让
// 文件级 watch 失效。Reload 失败时保留旧配置并记录 warn 日志，
// 不调用 onChange。
//
// 返回停止函数；停止后 onChange 不再被调用。从字节数据创建的
// Config 返回 ErrNotReloadable。
func Watch(cfg Config, onChange func()) (stop func(), err error) {
	if onChange == nil {
		return nil, ErrNilCallback
	}
	path := cfg.Path()
	if path == "" {
		return nil, ErrNotReloadable
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		target := filepath.Clean(path)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if rerr := cfg.Reload(); rerr != nil {
					xlog.Warn(context.Background(), "config reload failed, keeping previous",
						slog.String("path", path),
						slog.Any("error", rerr),
					)
					continue
				}
				onChange()
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				xlog.Warn(context.Background(), "config watcher error",
					slog.String("path", path),
					slog.Any("error", werr),
				)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}
