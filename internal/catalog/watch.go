package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Static catalog whenever its YAML file changes. A file that
// fails to parse is logged and the previous contents are kept.
type Watcher struct {
	path     string
	target   *Static
	logger   *slog.Logger
	debounce time.Duration
	onReload func(count int)
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithReloadHook is called after each successful reload.
func WithReloadHook(fn func(count int)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

func NewWatcher(path string, target *Static, logger *slog.Logger, opts ...WatcherOption) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{path: path, target: target, logger: logger, debounce: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. It watches the file's directory so that
// editors which replace the file on save are handled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating catalog watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolving catalog path: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	activities, err := LoadFile(w.path)
	if err == nil {
		err = w.target.Replace(activities)
	}
	if err != nil {
		w.logger.Error("catalog reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("catalog reloaded", "path", w.path, "activities", len(activities))
	if w.onReload != nil {
		w.onReload(len(activities))
	}
}
