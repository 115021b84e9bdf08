// Package watch rebuilds the site when input files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the bursts of events editors produce on save.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc is called with the sorted base names of the files that
// changed since the previous call.
type RebuildFunc func(ctx context.Context, changed []string) error

// Watcher watches a set of files in one directory. The directory itself is
// watched so that files replaced by rename are still seen.
type Watcher struct {
	dir      string
	names    map[string]bool
	debounce time.Duration
	rebuild  RebuildFunc
	logger   *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a Watcher for the named files inside dir.
func New(dir string, names []string, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		names:    make(map[string]bool, len(names)),
		debounce: DefaultDebounce,
		rebuild:  rebuild,
		logger:   zap.NewNop(),
	}
	for _, n := range names {
		w.names[filepath.Base(n)] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Rebuild errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching for changes", zap.String("dir", w.dir), zap.Int("files", len(w.names)))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			w.logger.Debug("file changed", zap.String("file", name), zap.String("op", event.Op.String()))
			pending[name] = true
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for n := range pending {
				changed = append(changed, n)
			}
			sort.Strings(changed)
			clear(pending)

			if err := w.rebuild(ctx, changed); err != nil {
				w.logger.Warn("rebuild failed", zap.Strings("changed", changed), zap.Error(err))
			}
		}
	}
}

// relevant reports whether an event touches a watched file.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return "", false
	}
	name := filepath.Base(event.Name)
	return name, w.names[name]
}
