// Package watch reports changes to a single file.
//
// It watches the file's directory with fsnotify, which also catches editors
// that save by renaming a temporary file over the original, and falls back to
// polling when fsnotify is unavailable. Bursts of events are debounced into a
// single notification.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults.
const (
	DefaultDebounce     = 150 * time.Millisecond
	DefaultPollInterval = time.Second
)

// ErrRemoved is reported when the watched file disappears.
var ErrRemoved = errors.New("watched file was removed")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before a change is
// reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.poll = d }
}

// WithForcePoll disables fsnotify.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// WithOnError sets the callback for watch errors and ErrRemoved.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher monitors one file.
type Watcher struct {
	path      string
	debounce  time.Duration
	poll      time.Duration
	forcePoll bool
	onError   func(error)

	mu      sync.Mutex
	polling bool
}

// New creates a watcher for path. The file need not exist yet.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		poll:     DefaultPollInterval,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Polling reports whether the last Start fell back to polling.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching. The returned channel receives a value after each
// debounced change and is closed once ctx is done. A slow receiver sees
// coalesced notifications, never a blocked watcher.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	if info, err := os.Stat(w.path); err == nil && info.IsDir() {
		return nil, errors.New("watch: " + w.path + " is a directory")
	} else if err != nil && os.IsPermission(err) {
		return nil, err
	}

	changes := make(chan struct{}, 1)
	deb := &debouncer{d: w.debounce, fn: func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}}
	done := func() {
		deb.stop()
		close(changes)
	}

	if !w.forcePoll {
		if fsw, err := fsnotify.NewWatcher(); err == nil {
			if err := fsw.Add(filepath.Dir(w.path)); err == nil {
				w.setPolling(false)
				go func() {
					defer done()
					defer fsw.Close()
					w.runNotify(ctx, fsw, deb)
				}()
				return changes, nil
			}
			fsw.Close()
		}
	}

	w.setPolling(true)
	go func() {
		defer done()
		w.runPoll(ctx, deb)
	}()
	return changes, nil
}

func (w *Watcher) setPolling(p bool) {
	w.mu.Lock()
	w.polling = p
	w.mu.Unlock()
}

func (w *Watcher) runNotify(ctx context.Context, fsw *fsnotify.Watcher, deb *debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				w.onError(ErrRemoved)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				deb.trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context, deb *debouncer) {
	var mtime time.Time
	var size int64
	if info, err := os.Stat(w.path); err == nil {
		mtime, size = info.ModTime(), info.Size()
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if os.IsNotExist(err) {
					if !mtime.IsZero() {
						mtime, size = time.Time{}, 0
						w.onError(ErrRemoved)
					}
					continue
				}
				w.onError(err)
				continue
			}
			if !info.ModTime().Equal(mtime) || info.Size() != size {
				mtime, size = info.ModTime(), info.Size()
				deb.trigger()
			}
		}
	}
}

// debouncer runs fn once a burst of triggers has been quiet for d.
type debouncer struct {
	d  time.Duration
	fn func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func (b *debouncer) trigger() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, b.fire)
}

func (b *debouncer) fire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stopped {
		b.fn()
	}
}

func (b *debouncer) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
}
