// Package summary turns a raw meeting transcript into a structured
// MeetingResult using a text generator.
package summary

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/telemetry"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
)

const (
	// ChunkSentinel replaces the partial summary of a chunk that produced nothing usable
	ChunkSentinel = "[No summary for this segment]"

	// FallbackPrefix marks a summary built from source text instead of the model
	FallbackPrefix = "[Fallback: the model returned no summary] "

	StrategySinglePass = "single_pass"
	StrategyTwoPass    = "two_pass"
)

// Config holds the pipeline heuristics
type Config struct {
	ChunkSize        int
	TwoPassThreshold int
	ChunkConcurrency int
	FallbackChars    int
	MaxScanBytes     int

	MaxRetries           uint64
	RetryInitialInterval time.Duration

	Generation ai.Options
}

// DefaultConfig returns the built-in heuristics
func DefaultConfig() Config {
	return Config{
		ChunkSize:            4000,
		TwoPassThreshold:     4000,
		ChunkConcurrency:     4,
		FallbackChars:        500,
		MaxScanBytes:         MaxScanBytes,
		MaxRetries:           1,
		RetryInitialInterval: 500 * time.Millisecond,
		Generation:           ai.Options{}.WithDefaults(),
	}
}

// NewConfig builds the pipeline configuration from the loaded settings
func NewConfig(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.Pipeline.ChunkSize > 0 {
		c.ChunkSize = cfg.Pipeline.ChunkSize
	}
	if cfg.Pipeline.TwoPassThreshold > 0 {
		c.TwoPassThreshold = cfg.Pipeline.TwoPassThreshold
	}
	if cfg.Pipeline.ChunkConcurrency > 0 {
		c.ChunkConcurrency = cfg.Pipeline.ChunkConcurrency
	}
	if cfg.Pipeline.FallbackChars > 0 {
		c.FallbackChars = cfg.Pipeline.FallbackChars
	}
	if cfg.Pipeline.MaxScanBytes > 0 {
		c.MaxScanBytes = cfg.Pipeline.MaxScanBytes
	}
	c.MaxRetries = cfg.LLM.MaxRetries
	c.Generation = ai.DefaultOptions(cfg.LLM)
	return c
}

// Summarizer runs the summarization pipeline. It keeps no state between
// calls and is safe for concurrent use.
type Summarizer struct {
	gen     ai.Generator
	cfg     Config
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	now     func() time.Time
}

// Option configures a Summarizer
type Option func(*Summarizer)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Summarizer) { s.logger = logger }
}

// WithTracer sets the tracer for pipeline spans
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Summarizer) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the metric instruments
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(s *Summarizer) { s.metrics = metrics }
}

// WithClock overrides the time source used for created_at
func WithClock(now func() time.Time) Option {
	return func(s *Summarizer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSummarizer creates a pipeline around gen
func NewSummarizer(gen ai.Generator, cfg Config, opts ...Option) *Summarizer {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.TwoPassThreshold <= 0 {
		cfg.TwoPassThreshold = def.TwoPassThreshold
	}
	if cfg.ChunkConcurrency <= 0 {
		cfg.ChunkConcurrency = def.ChunkConcurrency
	}
	if cfg.FallbackChars <= 0 {
		cfg.FallbackChars = def.FallbackChars
	}
	if cfg.MaxScanBytes <= 0 {
		cfg.MaxScanBytes = def.MaxScanBytes
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = def.RetryInitialInterval
	}
	cfg.Generation.System = SystemInstruction

	s := &Summarizer{
		gen:    gen,
		cfg:    cfg,
		tracer: noop.NewTracerProvider().Tracer(""),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize produces a MeetingResult for the transcript. Generation failures
// degrade to sentinels and fallbacks; only a blank transcript or a cancelled
// context produce an error. Nothing is persisted.
func (s *Summarizer) Summarize(ctx context.Context, title, transcript string) (*entities.MeetingResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	start := s.now()
	runes := utf8.RuneCountInString(transcript)
	strategy := StrategySinglePass
	if runes > s.cfg.TwoPassThreshold {
		strategy = StrategyTwoPass
	}

	ctx, span := s.tracer.Start(ctx, "summary.Summarize", trace.WithAttributes(
		attribute.String("summary.strategy", strategy),
		attribute.Int("summary.transcript_runes", runes),
	))
	defer span.End()

	// source feeds the final extraction pass and the blank-summary fallback
	source := transcript
	if strategy == StrategyTwoPass {
		chunks := Chunk(transcript, s.cfg.ChunkSize)
		partials, err := s.condense(ctx, chunks)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		source = strings.Join(partials, " ")
	}

	extract, err := s.extract(ctx, source)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := entities.NewMeetingResult(title, transcript, s.now())
	result.Summary = extract.Summary
	if isBlankSummary(result.Summary) {
		result.Summary = s.fallback(source)
		if s.logger != nil {
			s.logger.Warn("⚠️ Model returned no summary, using fallback",
				append(jobcontext.Fields(ctx), zap.String("strategy", strategy))...,
			)
		}
	}
	result.Decisions = extract.Decisions
	result.ActionItems = NormalizeActionItems(extract.ActionItems)
	result.ImportantDates = extract.ImportantDates
	result.OtherNotes = extract.OtherNotes

	elapsed := s.now().Sub(start)
	s.metrics.RecordPipeline(ctx, strategy, elapsed)
	if s.logger != nil {
		s.logger.Info("✅ Meeting summarized", append(jobcontext.Fields(ctx),
			zap.String("title", result.Title),
			zap.String("strategy", strategy),
			zap.Int("transcript_runes", runes),
			zap.Int("action_items", len(result.ActionItems)),
			zap.Duration("elapsed", elapsed),
		)...)
	}
	return result, nil
}

// condense summarizes every chunk concurrently and returns the partial
// summaries in chunk order.
func (s *Summarizer) condense(ctx context.Context, chunks []string) ([]string, error) {
	partials := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ChunkConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			partials[i] = s.condenseChunk(gctx, i, chunk)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return partials, nil
}

func (s *Summarizer) condenseChunk(ctx context.Context, index int, chunk string) string {
	ctx, span := s.tracer.Start(ctx, "summary.condense_chunk", trace.WithAttributes(
		attribute.Int("summary.chunk_index", index),
	))
	defer span.End()

	text, err := s.generate(ctx, CondensePrompt(chunk))
	if err != nil {
		if ctx.Err() == nil {
			s.metrics.RecordChunkFailure(ctx)
			if s.logger != nil {
				s.logger.Warn("⚠️ Chunk condensation failed",
					zap.Int("chunk", index),
					zap.Error(err),
				)
			}
		}
		span.RecordError(err)
		return ChunkSentinel
	}

	partial := coerceBounded(text, s.cfg.MaxScanBytes).Summary
	if isBlankSummary(partial) {
		s.metrics.RecordChunkFailure(ctx)
		if s.logger != nil {
			s.logger.Warn("⚠️ Chunk produced an empty summary", zap.Int("chunk", index))
		}
		return ChunkSentinel
	}
	return partial
}

// extract runs the structured extraction pass. A generation failure yields an
// empty Extract so the caller applies the fallback; only cancellation is returned.
func (s *Summarizer) extract(ctx context.Context, text string) (Extract, error) {
	ctx, span := s.tracer.Start(ctx, "summary.extract")
	defer span.End()

	raw, err := s.generate(ctx, ExtractionPrompt(text))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Extract{}, ctxErr
		}
		span.RecordError(err)
		if s.logger != nil {
			s.logger.Warn("⚠️ Extraction pass failed", zap.Error(err))
		}
		return emptyExtract(), nil
	}

	out := coerceBounded(raw, s.cfg.MaxScanBytes)
	if out.Degraded && s.logger != nil {
		s.logger.Warn("⚠️ Model did not return JSON, keeping its text as the summary",
			zap.Int("response_chars", len(raw)),
		)
	}
	return out, nil
}

// generate calls the backend, retrying transient failures with exponential backoff
func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	var text string
	op := func() error {
		out, err := s.gen.Generate(ctx, prompt, s.cfg.Generation)
		if err != nil {
			if ctx.Err() != nil || !ai.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			if s.logger != nil {
				s.logger.Debug("Retrying generation", zap.String("provider", s.gen.Name()), zap.Error(err))
			}
			return err
		}
		text = out
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.RetryInitialInterval
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, s.cfg.MaxRetries), ctx)); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Summarizer) fallback(source string) string {
	return FallbackPrefix + firstRunes(strings.TrimSpace(source), s.cfg.FallbackChars)
}

func isBlankSummary(summary string) bool {
	summary = strings.TrimSpace(summary)
	return summary == "" || summary == NoSummary
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
