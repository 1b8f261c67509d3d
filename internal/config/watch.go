package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk. The parent
// directory is watched so editors that replace the file by rename are
// picked up.
type Watcher struct {
	path     string
	w        *fsnotify.Watcher
	onChange func(Config)
	logger   *slog.Logger
}

// NewWatcher watches path and calls onChange with every successfully
// loaded and validated revision. Invalid revisions are logged and skipped.
func NewWatcher(path string, onChange func(Config), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config watch: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, w: w, onChange: onChange, logger: logger}, nil
}

// Run delivers reloads until ctx is done or the watcher is closed.
func (cw *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-cw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cw.reload()
		case err, ok := <-cw.w.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("config watch error", "err", err)
		}
	}
}

func (cw *Watcher) reload() {
	cfg, err := Load(cw.path)
	if err != nil {
		cw.logger.Warn("config reload rejected", "path", cw.path, "err", err)
		return
	}
	cw.logger.Info("config reloaded", "path", cw.path)
	if cw.onChange != nil {
		cw.onChange(cfg)
	}
}

// Close stops watching.
func (cw *Watcher) Close() error {
	return cw.w.Close()
}
