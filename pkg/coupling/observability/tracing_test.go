package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("coupling")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartSessionSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx := context.Background()
	newCtx, span := m.StartSessionSpan(ctx, "SolidEnergy", "sess-1234")
	require.NotNil(t, span)
	assert.NotEqual(t, ctx, newCtx)

	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "coupling.session", s.Name)

	var participant, sessionID string
	for _, attr := range s.Attributes {
		switch attr.Key {
		case "participant":
			participant = attr.Value.AsString()
		case "session.id":
			sessionID = attr.Value.AsString()
		}
	}
	assert.Equal(t, "SolidEnergy", participant)
	assert.Equal(t, "sess-1234", sessionID)
}

func TestStartWindowSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx, session := m.StartSessionSpan(context.Background(), "SolidEnergy", "sess-1234")
	_, window := m.StartWindowSpan(ctx, 7)
	window.End()
	session.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	w := spans[0]
	assert.Equal(t, "coupling.window", w.Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), w.Parent.SpanID(), "window span is a child of the session span")

	var windowIdx int64
	for _, attr := range w.Attributes {
		if attr.Key == "window" {
			windowIdx = attr.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(7), windowIdx)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("records error", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartWindowSpan(context.Background(), 1)
		m.EndSpanWithError(span, errors.New("peer gone"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "peer gone", spans[0].Status.Description)
		require.Len(t, spans[0].Events, 1, "error recorded as event")
	})

	t.Run("sets ok status on success", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartWindowSpan(context.Background(), 2)
		m.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("tolerates nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.EndSpanWithError(nil, errors.New("ignored"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx, span := m.StartSessionSpan(context.Background(), "SolidEnergy", "sess-1234")
	m.AddSpanEvent(ctx, "coupling.rollback", attribute.Int("window", 3))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "coupling.rollback", spans[0].Events[0].Name)

	// no recording span in context: silently dropped
	assert.NotPanics(t, func() {
		m.AddSpanEvent(context.Background(), "dropped")
	})
}
