// Package telemetry wires OpenTelemetry metrics and tracing for the
// summarizer. Tests should build Metrics with NewMetrics and a private
// MeterProvider instead of the global one.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

const instrumentationName = "github.com/johnquangdev/meeting-summarizer"

// Metrics holds the instruments. A nil *Metrics records nothing.
type Metrics struct {
	GenerationDuration metric.Float64Histogram
	GenerationRequests metric.Int64Counter
	GenerationErrors   metric.Int64Counter

	PipelineRuns     metric.Int64Counter
	PipelineDuration metric.Float64Histogram
	ChunkFailures    metric.Int64Counter

	HTTPRequestDuration metric.Float64Histogram
}

// bucket boundaries in seconds; generation calls run up to the 60s timeout
var latencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120}

// NewMetrics creates every instrument from mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(instrumentationName)
	met := &Metrics{}
	var err error

	if met.GenerationDuration, err = m.Float64Histogram("summarizer.llm.duration",
		metric.WithDescription("Latency of text generation calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GenerationRequests, err = m.Int64Counter("summarizer.llm.requests",
		metric.WithDescription("Generation calls by provider and status."),
	); err != nil {
		return nil, err
	}
	if met.GenerationErrors, err = m.Int64Counter("summarizer.llm.errors",
		metric.WithDescription("Failed generation calls by provider and failure kind."),
	); err != nil {
		return nil, err
	}
	if met.PipelineRuns, err = m.Int64Counter("summarizer.pipeline.runs",
		metric.WithDescription("Summarization runs by strategy."),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("summarizer.pipeline.duration",
		metric.WithDescription("End-to-end summarization latency by strategy."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ChunkFailures, err = m.Int64Counter("summarizer.pipeline.chunk_failures",
		metric.WithDescription("Chunks replaced by the no-summary sentinel."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("summarizer.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// NewGlobalMetrics builds Metrics on the globally registered provider
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.GetMeterProvider())
}

// Tracer returns the tracer used by the pipeline
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// RecordPipeline records one finished summarization run
func (m *Metrics) RecordPipeline(ctx context.Context, strategy string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.PipelineRuns.Add(ctx, 1, attrs)
	m.PipelineDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordChunkFailure counts a chunk that produced no usable summary
func (m *Metrics) RecordChunkFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.ChunkFailures.Add(ctx, 1)
}

// RecordGeneration records one generation call and its outcome
func (m *Metrics) RecordGeneration(ctx context.Context, provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		kind := "unknown"
		var genErr *ai.GenerationError
		if errors.As(err, &genErr) {
			kind = string(genErr.Kind)
		}
		m.GenerationErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		))
	}
	m.GenerationRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
	m.GenerationDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}
