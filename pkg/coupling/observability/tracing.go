package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the coupling tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("coupling")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSessionSpan starts a span covering the whole coupled run.
	StartSessionSpan(ctx context.Context, participant, sessionID string) (context.Context, trace.Span)

	// StartWindowSpan starts a span for one coupling window. The window
	// span should be a child of the session span.
	StartWindowSpan(ctx context.Context, window int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function.
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartSessionSpan starts a span covering the whole coupled run.
func (m *otelSpanManager) StartSessionSpan(ctx context.Context, participant, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "coupling.session",
		trace.WithAttributes(
			attribute.String("participant", participant),
			attribute.String("session.id", sessionID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartWindowSpan starts a span for one coupling window.
func (m *otelSpanManager) StartWindowSpan(ctx context.Context, window int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "coupling.window",
		trace.WithAttributes(
			attribute.Int("window", window),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
