// Package watch re-runs a callback whenever a task file changes on disk.
//
// Editors rarely write a file in place: most write a temporary file and
// rename it over the original, which removes the inode fsnotify was
// watching. The watcher therefore observes the file's directory and filters
// events by name, so the target survives atomic saves.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/gravity/pkg/errors"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before invoking the handler.
const DefaultDebounce = 150 * time.Millisecond

// Handler is invoked once per settled burst of changes.
type Handler func(ctx context.Context, path string)

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before the handler runs.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// Logger receives watcher errors. Nil discards them.
	Logger *log.Logger
}

// Watcher watches a single file.
type Watcher struct {
	path     string
	dir      string
	base     string
	handler  Handler
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	running bool
}

// New creates a watcher for path. The file does not need to exist yet, but
// its directory does.
func New(path string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "watch handler cannot be nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		base:     filepath.Base(abs),
		handler:  handler,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run blocks until ctx is cancelled, invoking the handler after each burst
// of writes, creates or renames of the watched file. A pending burst is
// dropped on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidInput, "watcher for %s is already running", w.path)
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", w.dir)
	}
	w.logger.Debug("watching", "path", w.path, "debounce", w.debounce)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			w.handler(ctx, w.path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// relevant reports whether event touches the watched file in a way that
// may have changed its content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.base {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
