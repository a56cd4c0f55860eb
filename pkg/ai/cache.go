package ai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ResponseCache stores generated text keyed by request fingerprint
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedGenerator answers repeated identical requests from a cache.
// Only replies accepted by the filter are stored. Cache failures are logged
// and never fail the call.
type CachedGenerator struct {
	next   Generator
	cache  ResponseCache
	ttl    time.Duration
	accept func(text string) bool
	logger *zap.Logger
}

// CacheOption configures a CachedGenerator
type CacheOption func(*CachedGenerator)

// WithCacheFilter replaces the default filter, which stores only replies
// that are a bare JSON object
func WithCacheFilter(accept func(text string) bool) CacheOption {
	return func(c *CachedGenerator) {
		if accept != nil {
			c.accept = accept
		}
	}
}

// NewCachedGenerator wraps next with cache. A nil cache or non-positive ttl
// returns next unchanged.
func NewCachedGenerator(next Generator, cache ResponseCache, ttl time.Duration, logger *zap.Logger, opts ...CacheOption) Generator {
	if cache == nil || ttl <= 0 {
		return next
	}
	c := &CachedGenerator{next: next, cache: cache, ttl: ttl, accept: IsJSONObject, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsJSONObject reports whether text parses as a single JSON object
func IsJSONObject(text string) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(bytes.TrimSpace([]byte(text)), &obj) == nil && obj != nil
}

// Name implements Generator
func (c *CachedGenerator) Name() string {
	return c.next.Name()
}

// Generate implements Generator
func (c *CachedGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	key := CacheKey(c.next.Name(), prompt, opts)

	if text, ok, err := c.cache.Get(ctx, key); err != nil {
		if c.logger != nil {
			c.logger.Warn("generation cache read failed", zap.Error(err))
		}
	} else if ok {
		return text, nil
	}

	text, err := c.next.Generate(ctx, prompt, opts)
	if err != nil || text == "" {
		return text, err
	}
	if !c.accept(text) {
		if c.logger != nil {
			c.logger.Debug("generation reply not cached", zap.Int("chars", len(text)))
		}
		return text, nil
	}

	if err := c.cache.Set(ctx, key, text, c.ttl); err != nil && c.logger != nil {
		c.logger.Warn("generation cache write failed", zap.Error(err))
	}
	return text, nil
}

// CacheKey fingerprints everything that influences the reply
func CacheKey(provider, prompt string, opts Options) string {
	opts = opts.WithDefaults()
	h := sha256.New()
	for _, part := range []string{
		provider,
		opts.Model,
		opts.System,
		strconv.FormatFloat(opts.TemperatureValue(), 'f', -1, 64),
		strconv.Itoa(opts.MaxTokens),
		prompt,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "gen:" + hex.EncodeToString(h.Sum(nil))
}
