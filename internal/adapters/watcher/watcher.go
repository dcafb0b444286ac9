// Package watcher detects changes below a target directory for watch-mode
// rebuilds.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher with fsnotify, or with periodic snapshots
// when a poll interval is configured.
type Watcher struct {
	logger ports.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Watch starts observing dir until ctx is done.
func (w *Watcher) Watch(ctx context.Context, dir string, opts domain.WatchOptions) (<-chan struct{}, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrWatcherFailed, err), "directory", dir)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrWatcherFailed, "not a directory"), "directory", dir)
	}

	ignore := newMatcher(opts.Ignored)
	out := newNotifier()
	debouncer := NewDebouncer(opts.Debounce(), func([]string) { out.notify() })

	if interval := opts.PollInterval(); interval > 0 {
		base, err := snapshot(dir, ignore)
		if err != nil {
			return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrWatcherFailed, err), "directory", dir)
		}
		go w.poll(ctx, dir, interval, base, ignore, debouncer, out)
		return out.ch, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrWatcherFailed, err), "directory", dir)
	}
	for sub := range watchRecursively(dir, dir, ignore) {
		if err := fsw.Add(sub); err != nil {
			_ = fsw.Close()
			return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrWatcherFailed, err), "directory", sub)
		}
	}

	go w.processEvents(ctx, fsw, dir, ignore, debouncer, out)
	return out.ch, nil
}

// processEvents feeds relevant fsnotify events into the debouncer.
func (w *Watcher) processEvents(
	ctx context.Context,
	fsw *fsnotify.Watcher,
	dir string,
	ignore matcher,
	debouncer *Debouncer,
	out *notifier,
) {
	defer out.close()
	defer debouncer.Stop()
	defer func() { _ = fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(dir, event.Name)
			if err != nil || ignore.ignored(rel) {
				continue
			}
			debouncer.Add(event.Name)

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDirectories[info.Name()] {
					for sub := range watchRecursively(dir, event.Name, ignore) {
						_ = fsw.Add(sub)
					}
				}
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(zerr.Wrap(err, "file watcher error").Error())
		}
	}
}

// poll compares snapshots of dir every interval.
func (w *Watcher) poll(
	ctx context.Context,
	dir string,
	interval time.Duration,
	last uint64,
	ignore matcher,
	debouncer *Debouncer,
	out *notifier,
) {
	defer out.close()
	defer debouncer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sum, err := snapshot(dir, ignore)
			if err != nil {
				w.logger.Warn(err.Error())
				continue
			}
			if sum != last {
				last = sum
				debouncer.Add(dir)
			}
		}
	}
}

// watchRecursively yields start and every directory below it that is neither
// skipped nor ignored relative to root.
func watchRecursively(root, start string, ignore matcher) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // skip problematic directories
			}
			if !d.IsDir() {
				return nil
			}
			if path != root {
				rel, relErr := filepath.Rel(root, path)
				if relErr != nil || skipDirectories[d.Name()] || ignore.ignored(rel) {
					return fs.SkipDir
				}
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// notifier delivers coalesced change signals. At most one signal is pending.
type notifier struct {
	mu     sync.Mutex
	closed bool
	ch     chan struct{}
}

func newNotifier() *notifier {
	return &notifier{ch: make(chan struct{}, 1)}
}

func (n *notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.closed = true
		close(n.ch)
	}
}
