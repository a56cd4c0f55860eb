package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type mapCache struct {
	mu      sync.Mutex
	items   map[string]string
	failGet bool
}

func (m *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("cache down")
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

type countingGenerator struct {
	calls int
	reply string
	err   error
}

func (c *countingGenerator) Name() string { return "counting" }

func (c *countingGenerator) Generate(context.Context, string, Options) (string, error) {
	c.calls++
	return c.reply, c.err
}

func TestCachedGenerator_HitsCache(t *testing.T) {
	inner := &countingGenerator{reply: `{"summary":"cached"}`}
	cache := &mapCache{items: map[string]string{}}
	gen := NewCachedGenerator(inner, cache, time.Hour, nil)

	for i := 0; i < 3; i++ {
		text, err := gen.Generate(context.Background(), "same prompt", Options{System: "s"})
		if err != nil || text != `{"summary":"cached"}` {
			t.Fatalf("unexpected result %q, %v", text, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", inner.calls)
	}

	if _, err := gen.Generate(context.Background(), "other prompt", Options{System: "s"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("different prompt must miss the cache, got %d calls", inner.calls)
	}
}

type scriptedGenerator struct {
	calls   int
	replies []string
}

func (s *scriptedGenerator) Name() string { return "scripted" }

func (s *scriptedGenerator) Generate(context.Context, string, Options) (string, error) {
	reply := s.replies[min(s.calls, len(s.replies)-1)]
	s.calls++
	return reply, nil
}

func TestCachedGenerator_ProseReplyIsNotReplayed(t *testing.T) {
	inner := &scriptedGenerator{replies: []string{"Sorry, I cannot produce JSON.", `{"summary":"ok"}`}}
	cache := &mapCache{items: map[string]string{}}
	gen := NewCachedGenerator(inner, cache, time.Hour, nil)

	first, _ := gen.Generate(context.Background(), "p", Options{})
	second, _ := gen.Generate(context.Background(), "p", Options{})
	third, _ := gen.Generate(context.Background(), "p", Options{})

	if first != "Sorry, I cannot produce JSON." {
		t.Fatalf("unexpected first reply %q", first)
	}
	if second != `{"summary":"ok"}` || third != second {
		t.Fatalf("expected the JSON reply after the prose one, got %q then %q", second, third)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 backend calls, got %d", inner.calls)
	}
}

func TestCachedGenerator_CustomFilter(t *testing.T) {
	inner := &countingGenerator{reply: "plain text"}
	cache := &mapCache{items: map[string]string{}}
	gen := NewCachedGenerator(inner, cache, time.Hour, nil, WithCacheFilter(func(string) bool { return true }))

	gen.Generate(context.Background(), "p", Options{})
	gen.Generate(context.Background(), "p", Options{})
	if inner.calls != 1 {
		t.Fatalf("filter accepting everything must cache prose, got %d calls", inner.calls)
	}
}

func TestIsJSONObject(t *testing.T) {
	tests := map[string]bool{
		`{"summary":"x"}`:         true,
		"  {\"a\":1}\n":           true,
		`[1,2]`:                   false,
		`null`:                    false,
		"Sorry, no JSON here.":    false,
		"```json\n{\"a\":1}\n```": false,
	}
	for in, want := range tests {
		if got := IsJSONObject(in); got != want {
			t.Errorf("IsJSONObject(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCachedGenerator_DoesNotCacheFailures(t *testing.T) {
	inner := &countingGenerator{err: &GenerationError{Provider: "counting", Kind: FailureNetwork, Err: errors.New("boom")}}
	cache := &mapCache{items: map[string]string{}}
	gen := NewCachedGenerator(inner, cache, time.Hour, nil)

	for i := 0; i < 2; i++ {
		if _, err := gen.Generate(context.Background(), "p", Options{}); err == nil {
			t.Fatalf("expected failure to pass through")
		}
	}
	if inner.calls != 2 || len(cache.items) != 0 {
		t.Fatalf("failures must not be cached: calls=%d items=%d", inner.calls, len(cache.items))
	}
}

func TestCachedGenerator_CacheErrorIgnored(t *testing.T) {
	inner := &countingGenerator{reply: "fresh"}
	gen := NewCachedGenerator(inner, &mapCache{items: map[string]string{}, failGet: true}, time.Hour, nil)

	text, err := gen.Generate(context.Background(), "p", Options{})
	if err != nil || text != "fresh" {
		t.Fatalf("cache failure must fall through to backend: %q, %v", text, err)
	}
}

func TestNewCachedGenerator_Disabled(t *testing.T) {
	inner := &countingGenerator{}
	if gen := NewCachedGenerator(inner, nil, time.Hour, nil); gen != Generator(inner) {
		t.Fatalf("nil cache must return the inner generator")
	}
	if gen := NewCachedGenerator(inner, &mapCache{}, 0, nil); gen != Generator(inner) {
		t.Fatalf("zero ttl must return the inner generator")
	}
}

func TestCacheKey_Stable(t *testing.T) {
	a := CacheKey("p", "prompt", Options{})
	b := CacheKey("p", "prompt", Options{Temperature: Float(DefaultTemperature), MaxTokens: DefaultMaxTokens})
	if a != b {
		t.Fatalf("defaults must not change the key")
	}
	if a == CacheKey("p", "prompt", Options{Temperature: Float(0)}) {
		t.Fatalf("an explicit zero temperature must not share the default key")
	}
	if a == CacheKey("q", "prompt", Options{}) {
		t.Fatalf("provider must be part of the key")
	}
}
