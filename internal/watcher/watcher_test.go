package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string, handler Handler) (context.CancelFunc, chan error) {
	t.Helper()
	accept := func(name string) bool { return strings.HasSuffix(name, ".txt") }
	w, err := New(dir, handler, accept, 50*time.Millisecond, 2, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	return cancel, done
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()

	var (
		mu    sync.Mutex
		calls = map[string]int{}
	)
	handled := make(chan string, 10)
	cancel, done := startWatcher(t, dir, func(ctx context.Context, path string) error {
		mu.Lock()
		calls[filepath.Base(path)]++
		mu.Unlock()
		handled <- path
		return nil
	})

	path := filepath.Join(dir, "standup.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 5; i++ {
		f.WriteString("line\n")
		time.Sleep(10 * time.Millisecond)
	}
	f.Close()

	os.WriteFile(filepath.Join(dir, "standup.summary.yaml"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644)

	select {
	case got := <-handled:
		if got != path {
			t.Fatalf("unexpected path %s", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}

	// give any duplicate or filtered event time to show up
	time.Sleep(200 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls["standup.txt"] != 1 {
		t.Fatalf("expected a single call for standup.txt, got %v", calls)
	}
}

func TestWatcher_HandlerErrorDoesNotStop(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 10)
	cancel, done := startWatcher(t, dir, func(ctx context.Context, path string) error {
		handled <- filepath.Base(path)
		return errors.New("boom")
	})
	defer func() {
		cancel()
		<-done
	}()

	for _, name := range []string{"a.txt", "b.txt"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644)
	}

	seen := map[string]bool{}
	for len(seen) < 2 {
		select {
		case name := <-handled:
			seen[name] = true
		case <-time.After(3 * time.Second):
			t.Fatalf("expected both files handled, got %v", seen)
		}
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil, nil, 0, 0, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
