// Package watch re-runs a handler whenever a watched passage file is saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"humanizer/internal/ingest"
	"humanizer/internal/logging"
	"humanizer/internal/textproc"
)

// DefaultDebounce is how long a file must stay quiet before the handler runs.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the freshly loaded document after each settled save.
type Handler func(ctx context.Context, doc *ingest.Document) error

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Skipped       int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// Watcher watches a single file. The parent directory is watched so editors that
// save by rename are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	handler  Handler
	debounce time.Duration

	pending   time.Time
	lastPrint textproc.Fingerprint

	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
	closeOnce sync.Once

	stats Stats
}

// New creates a watcher for path. debounce <= 0 uses DefaultDebounce.
func New(path string, debounce time.Duration, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: nil handler")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if info, err := os.Stat(abs); err != nil {
		return nil, err
	} else if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		handler:  handler,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logging.Watch("watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the underlying watcher. Safe to call more
// than once, and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			logging.WatchError("error closing watcher: %v", err)
		}
	})
	logging.Watch("stopped watching %s", w.path)
}

// Prime marks doc as already handled, so a later save with the same text is skipped.
// Use it after handling the file yourself before Start.
func (w *Watcher) Prime(doc *ingest.Document) {
	fp := textproc.FingerprintOf(doc.Text)
	w.mu.Lock()
	w.lastPrint = fp
	w.mu.Unlock()
	logging.WatchDebug("primed %s with %s", w.path, fp.Short())
}

// Stats returns a snapshot of activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(max(w.debounce/5, time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-tick.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var kind string
	switch {
	case event.Op&fsnotify.Create != 0:
		kind = "create"
	case event.Op&fsnotify.Write != 0:
		kind = "modify"
	case event.Op&fsnotify.Rename != 0:
		kind = "rename"
	default:
		return
	}
	logging.WatchDebug("%s event for %s", kind, event.Name)

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventType = kind
	w.pending = time.Now()
	w.mu.Unlock()
}

// flush runs the handler once the pending event has settled.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	doc, err := ingest.Load(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.WatchDebug("file gone, waiting for it to return: %s", w.path)
			return
		}
		logging.WatchError("failed to load %s: %v", w.path, err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	fp := textproc.FingerprintOf(doc.Text)
	w.mu.Lock()
	if fp == w.lastPrint {
		w.stats.Skipped++
		w.mu.Unlock()
		logging.WatchDebug("content unchanged (%s), skipping", fp.Short())
		return
	}
	w.stats.Runs++
	w.mu.Unlock()

	if err := w.handler(ctx, doc); err != nil {
		logging.WatchError("handler failed for %s: %v", w.path, err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	// Only a successful run counts as seen, so saving the same text retries a failure.
	w.mu.Lock()
	w.lastPrint = fp
	w.mu.Unlock()
}
