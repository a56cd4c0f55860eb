// Package watcher runs a handler for every file that settles in a directory.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler processes one file once writes to it have stopped
type Handler func(ctx context.Context, path string) error

// Watcher monitors a directory
type Watcher interface {
	// Start blocks until ctx is done, then waits for running handlers
	Start(ctx context.Context) error
	Stop() error
}

type implWatcher struct {
	dir       string
	handler   Handler
	accept    func(name string) bool
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Start begins monitoring the directory
func (w *implWatcher) Start(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("👀 Watching folder",
			zap.String("dir", w.dir),
			zap.Int("max_concurrent", cap(w.semaphore)),
			zap.Duration("debounce", w.debounce),
		)
	}

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.drain()
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") || !w.accept(name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.drain()
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.logger != nil {
				w.logger.Error("Watcher error", zap.Error(err))
			}
		}
	}
}

// schedule (re)arms the debounce timer of path
func (w *implWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// a timer that already fired is left to finish and replaced
	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(w.debounce)
		return
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()
		w.run(ctx, path)
	})
	w.timers[path] = t
}

func (w *implWatcher) run(ctx context.Context, path string) {
	// Acquire semaphore slot (blocks if max concurrent reached)
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-w.semaphore }()

	if w.logger != nil {
		w.logger.Info("📄 New file detected", zap.String("path", path))
	}
	if err := w.handler(ctx, path); err != nil && w.logger != nil {
		w.logger.Error("❌ Failed to process file", zap.String("path", path), zap.Error(err))
	}
}

// drain cancels pending timers and waits for running handlers
func (w *implWatcher) drain() {
	w.mu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	if w.logger != nil {
		w.logger.Info("File watcher stopped")
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
