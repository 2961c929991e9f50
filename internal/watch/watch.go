// Package watch reports changes to recording files on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rtxi/analysis-tools/internal/logging"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

// DefaultDebounce coalesces the burst of writes an acquisition produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches single files. It implements ports.Watchable.
type Watcher struct {
	debounce time.Duration
	logger   *slog.Logger
}

var _ ports.Watchable = (*Watcher)(nil)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period required before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.NewNop()
	}
	return w
}

// Watch sends on the returned channel after file is written, created or
// renamed into place, once no further event arrived for the debounce period.
// Notifications are coalesced: a slow reader sees one pending signal, not many.
// The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context, file string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// The directory is watched so editors and writers that replace the file
	// keep being tracked.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Debug("watching file", "path", abs)

	out := make(chan struct{}, 1)
	go w.loop(ctx, fw, abs, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, path string, out chan struct{}) {
	defer close(out)
	defer fw.Close()

	name := filepath.Base(path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Debug("file changed", "path", path)
			select {
			case out <- struct{}{}:
			default:
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "path", path, "err", err)
		}
	}
}
