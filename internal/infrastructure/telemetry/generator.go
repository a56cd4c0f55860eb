package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

type instrumentedGenerator struct {
	next    ai.Generator
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// InstrumentGenerator wraps next so that every call is timed, counted and traced
func InstrumentGenerator(next ai.Generator, metrics *Metrics, tracer trace.Tracer) ai.Generator {
	if tracer == nil {
		tracer = Tracer()
	}
	return &instrumentedGenerator{next: next, metrics: metrics, tracer: tracer, now: time.Now}
}

func (g *instrumentedGenerator) Name() string {
	return g.next.Name()
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	ctx, span := g.tracer.Start(ctx, "llm.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.provider", g.next.Name()),
			attribute.Int("llm.prompt_chars", len(prompt)),
		),
	)
	defer span.End()

	start := g.now()
	text, err := g.next.Generate(ctx, prompt, opts)
	g.metrics.RecordGeneration(ctx, g.next.Name(), g.now().Sub(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.response_chars", len(text)))
	return text, nil
}
