// Package watcher keeps a user catalog file in sync with the running
// program. Each time the file settles after a change it is loaded and
// validated again, and the outcome (a fresh catalog or the reason it was
// rejected) is delivered on Updates.
//
// Changes are noticed through fsnotify on the file's directory. When
// fsnotify is unavailable, or MANYWAYS_FORCE_POLL is set, the file is
// stat-polled instead.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/debug"
)

const (
	// DefaultDebounce is how long the file must stay quiet before it is
	// reloaded. Editors write a burst of events per save.
	DefaultDebounce = 200 * time.Millisecond
	// DefaultPollInterval is the stat interval in polling mode.
	DefaultPollInterval = 2 * time.Second
)

var (
	ErrFileRemoved    = errors.New("catalog file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Reload is the result of re-reading the catalog file. Exactly one of
// Catalog and Err is set.
type Reload struct {
	Path    string
	Catalog *catalog.Catalog
	Err     error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithForcePoll skips fsnotify.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// WithLoader replaces catalog.LoadFrom.
func WithLoader(load func(path string) (*catalog.Catalog, error)) Option {
	return func(w *Watcher) {
		if load != nil {
			w.load = load
		}
	}
}

// Watcher reloads one catalog file.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	load         func(string) (*catalog.Catalog, error)

	updates chan Reload

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	polling bool
}

// New creates a Watcher for the catalog at path. Nothing runs until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving catalog path: %w", err)
	}
	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		load:         catalog.LoadFrom,
		updates:      make(chan Reload, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Updates delivers one Reload per settled change. Only the newest result
// is buffered; a reader that falls behind skips stale ones. The channel is
// never closed.
func (w *Watcher) Updates() <-chan Reload { return w.updates }

// Polling reports whether the watcher fell back to stat polling.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Running reports whether Start has been called without a matching Stop.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

// Start watches until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	changes := make(chan error, 8)

	w.polling = w.forcePoll || envBool("MANYWAYS_FORCE_POLL")
	if !w.polling {
		fsw, err := newDirWatcher(filepath.Dir(w.path))
		if err != nil {
			debug.Logw("fsnotify unavailable, polling catalog", "path", w.path, "error", err)
			w.polling = true
		} else {
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				w.notify(ctx, fsw, changes)
			}()
		}
	}
	if w.polling {
		size, mtime := statFile(w.path)
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.poll(ctx, size, mtime, changes)
		}()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx, changes)
	}()

	w.cancel = cancel
	debug.Logw("catalog watch started", "path", w.path, "polling", w.polling)
	return nil
}

// Stop ends watching and waits for the background goroutines. Calling it
// twice is safe.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
}

func newDirWatcher(dir string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory, not the file: editors save by replacing the file.
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

// loop turns raw change signals into reloads. A nil signal means the file
// was written; it arms the debounce timer. A non-nil signal is reported
// straight away.
func (w *Watcher) loop(ctx context.Context, changes <-chan error) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-changes:
			if err != nil {
				timer.Stop()
				w.publish(Reload{Path: w.path, Err: err})
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.publish(w.reload())
		}
	}
}

func (w *Watcher) reload() Reload {
	c, err := w.load(w.path)
	if err != nil {
		debug.Logw("catalog rejected", "path", w.path, "error", err)
		return Reload{Path: w.path, Err: err}
	}
	debug.Logw("catalog loaded", "path", w.path, "categories", c.Len())
	return Reload{Path: w.path, Catalog: c}
}

// publish replaces any unread result with r.
func (w *Watcher) publish(r Reload) {
	for {
		select {
		case w.updates <- r:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

func (w *Watcher) notify(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- error) {
	defer fsw.Close()
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			var signal error
			switch {
			case ev.Has(fsnotify.Remove):
				signal = ErrFileRemoved
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
			default:
				continue
			}
			if !send(ctx, changes, signal) {
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			debug.Logw("fsnotify error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) poll(ctx context.Context, size int64, mtime time.Time, changes chan<- error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	present := !mtime.IsZero()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, err := os.Stat(w.path)
		var signal error
		switch {
		case os.IsNotExist(err):
			if !present {
				continue
			}
			present, size, mtime = false, 0, time.Time{}
			signal = ErrFileRemoved
		case err != nil:
			signal = fmt.Errorf("stat catalog: %w", err)
		default:
			if present && info.Size() == size && !info.ModTime().After(mtime) {
				continue
			}
			present, size, mtime = true, info.Size(), info.ModTime()
		}
		if !send(ctx, changes, signal) {
			return
		}
	}
}

func send(ctx context.Context, changes chan<- error, signal error) bool {
	select {
	case changes <- signal:
		return true
	case <-ctx.Done():
		return false
	}
}

func statFile(path string) (int64, time.Time) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}
	}
	return info.Size(), info.ModTime()
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
