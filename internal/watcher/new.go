package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is handled
const DefaultDebounce = time.Second

// New creates a new Watcher on dir. accept filters file names; nil accepts
// every file.
func New(dir string, handler Handler, accept func(name string) bool, debounce time.Duration, maxConcurrent int, logger *zap.Logger) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}

	return &implWatcher{
		dir:       dir,
		handler:   handler,
		accept:    accept,
		logger:    logger,
		watcher:   fw,
		debounce:  debounce,
		semaphore: make(chan struct{}, maxConcurrent),
		timers:    make(map[string]*time.Timer),
	}, nil
}
