package live

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/docroutes/pkg/source"
)

// Watcher triggers reloads until its context is canceled.
type Watcher interface {
	Run(ctx context.Context) error
}

// ReloadFunc performs one reload.
type ReloadFunc func(ctx context.Context) (bool, error)

const (
	// DefaultDebounce is used when a FileWatcher has no debounce set.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultInterval is used when a PollWatcher has no interval set.
	DefaultInterval = 30 * time.Second
)

// Watcher picks a FileWatcher for local files and a PollWatcher for
// everything else.
func (h *Holder) Watcher(debounce, interval time.Duration) Watcher {
	if fs, ok := h.config.Source.(*source.FileSource); ok {
		return &FileWatcher{
			Path:     fs.Path,
			Debounce: debounce,
			Reload:   h.Reload,
			Logger:   h.logger,
		}
	}
	return &PollWatcher{
		Interval: interval,
		Reload:   h.Reload,
		Logger:   h.logger,
	}
}

// FileWatcher reloads when a file changes. It watches the parent
// directory so that files replaced by rename are still seen.
type FileWatcher struct {
	Path string

	// Debounce is the quiet period after the last event before reloading.
	Debounce time.Duration

	Reload ReloadFunc
	Logger *slog.Logger
}

// Run watches until ctx is canceled. Reload failures are logged by the
// holder and do not stop the watcher.
func (w *FileWatcher) Run(ctx context.Context) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Debug("watching route table", "path", target)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op == fsnotify.Chmod {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "path", target, "error", err)

		case <-fire:
			fire = nil
			_, _ = w.Reload(ctx)
		}
	}
}

// PollWatcher reloads on a fixed interval. Unchanged documents are cheap:
// the holder skips them by version and fingerprint.
type PollWatcher struct {
	Interval time.Duration
	Reload   ReloadFunc
	Logger   *slog.Logger
}

// Run polls until ctx is canceled.
func (w *PollWatcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = w.Reload(ctx)
		}
	}
}
