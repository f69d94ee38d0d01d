// Package watcher notifies the viewer when the JSON document it is showing
// changes on disk. fsnotify drives the common case; remote mounts and an
// explicit override fall back to polling the file's mtime and size.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce is the window for coalescing event bursts. Editors and
	// atomic-write tools emit several filesystem events per logical save.
	DefaultDebounce = 200 * time.Millisecond

	// DefaultPollInterval is the stat cadence in polling mode.
	DefaultPollInterval = 2 * time.Second
)

var (
	ErrRemoved        = errors.New("watched document was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Event is one notification from the watcher. A zero Event means the document
// changed and should be reloaded; a non-nil Err reports a problem with the
// watched path (the document itself is untouched).
type Event struct {
	Err error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window. Non-positive keeps the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithPollInterval sets the stat cadence for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.poll = d
		}
	}
}

// WithForcePoll skips fsnotify and always polls.
func WithForcePoll() Option {
	return func(w *Watcher) { w.forcePoll = true }
}

// Watcher monitors one document file. Events are delivered on a buffered
// channel; a change that arrives while a previous one is still unread is
// dropped, since the reader reloads the whole document either way.
type Watcher struct {
	path      string
	debounce  time.Duration
	poll      time.Duration
	forcePoll bool

	events chan Event

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	timer    *time.Timer
	cancel   context.CancelFunc
	started  bool
	polling  bool
	lastMod  time.Time
	lastSize int64
}

// New creates a watcher for the document at path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		poll:     DefaultPollInterval,
		events:   make(chan Event, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Events returns the notification channel. It is never closed; Stop ends
// delivery and the program exiting reclaims any blocked reader.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. Polling is chosen when forced (option or
// JV_FORCE_POLL), when the path sits on a remote mount, or when fsnotify
// cannot be set up.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	if info, err := os.Stat(w.path); err == nil {
		w.lastMod = info.ModTime()
		w.lastSize = info.Size()
	} else {
		w.lastMod = time.Time{}
		w.lastSize = 0
	}

	w.polling = w.forcePoll || envBool("JV_FORCE_POLL") || isRemotePathFunc(w.path)
	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.polling = true
		} else if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			// Watching the directory survives atomic rename-over saves.
			fsw.Close()
			w.polling = true
		} else {
			w.fsw = fsw
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.started = true

	if w.polling {
		go w.pollLoop(ctx)
	} else {
		go w.notifyLoop(ctx, w.fsw)
	}
	return nil
}

// Stop ends watching. Safe to call twice. The events channel stays open so a
// reader blocked on it is not woken with a spurious zero Event.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.started = false
}

// Polling reports whether the watcher runs in polling mode.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

func (w *Watcher) notifyLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.send(Event{Err: ErrRemoved})
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.changed()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.send(Event{Err: err})
		}
	}
}

func (w *Watcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

func (w *Watcher) pollOnce() {
	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			w.mu.Lock()
			existed := !w.lastMod.IsZero()
			w.lastMod = time.Time{}
			w.lastSize = 0
			w.mu.Unlock()
			if existed {
				w.send(Event{Err: ErrRemoved})
			}
			return
		}
		w.send(Event{Err: err})
		return
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.lastMod) || info.Size() != w.lastSize
	if changed {
		w.lastMod = info.ModTime()
		w.lastSize = info.Size()
	}
	w.mu.Unlock()

	if changed {
		w.changed()
	}
}

// changed schedules a change event after the debounce window, replacing any
// pending one so a burst collapses into a single notification.
func (w *Watcher) changed() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.send(Event{})
	})
}

func (w *Watcher) send(ev Event) {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return
	}
	select {
	case w.events <- ev:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
