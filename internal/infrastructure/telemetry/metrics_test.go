package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func counterTotal(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func histogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	var total uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if h, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range h.DataPoints {
					total += dp.Count
				}
			}
		}
	}
	return total
}

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Name() string { return "stub" }

func (s stubGenerator) Generate(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	return s.text, s.err
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordPipeline(ctx, "single_pass", time.Second)
	m.RecordChunkFailure(ctx)
	m.RecordGeneration(ctx, "stub", time.Second, errors.New("x"))
	m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Second)
}

func TestRecordPipeline(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordPipeline(ctx, "single_pass", 200*time.Millisecond)
	m.RecordPipeline(ctx, "two_pass", 3*time.Second)
	m.RecordChunkFailure(ctx)

	rm := collect(t, reader)
	if got := counterTotal(rm, "summarizer.pipeline.runs"); got != 2 {
		t.Fatalf("expected 2 runs, got %d", got)
	}
	if got := histogramCount(rm, "summarizer.pipeline.duration"); got != 2 {
		t.Fatalf("expected 2 duration samples, got %d", got)
	}
	if got := counterTotal(rm, "summarizer.pipeline.chunk_failures"); got != 1 {
		t.Fatalf("expected 1 chunk failure, got %d", got)
	}
}

func TestInstrumentGenerator(t *testing.T) {
	m, reader := newTestMetrics(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ok := InstrumentGenerator(stubGenerator{text: "hi"}, m, tp.Tracer("test"))
	if ok.Name() != "stub" {
		t.Fatalf("name must pass through, got %s", ok.Name())
	}
	if text, err := ok.Generate(context.Background(), "p", ai.Options{}); err != nil || text != "hi" {
		t.Fatalf("unexpected result %q, %v", text, err)
	}

	failing := InstrumentGenerator(stubGenerator{err: &ai.GenerationError{Provider: "stub", Kind: ai.FailureQuota}}, m, tp.Tracer("test"))
	if _, err := failing.Generate(context.Background(), "p", ai.Options{}); err == nil {
		t.Fatalf("expected the error to pass through")
	}

	rm := collect(t, reader)
	if got := counterTotal(rm, "summarizer.llm.requests"); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
	if got := counterTotal(rm, "summarizer.llm.errors"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := len(recorder.Ended()); got != 2 {
		t.Fatalf("expected 2 spans, got %d", got)
	}
}

func TestEchoMiddleware(t *testing.T) {
	m, reader := newTestMetrics(t)
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := echo.New()
	e.Use(EchoMiddleware(m, tp.Tracer("test")))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Fatalf("expected a correlation id header")
	}
	if got := histogramCount(collect(t, reader), "summarizer.http.request.duration"); got != 1 {
		t.Fatalf("expected 1 request sample, got %d", got)
	}
}
