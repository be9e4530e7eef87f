package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records coupling metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordWindow records the outcome of one committed coupling window.
	RecordWindow(ctx context.Context, dt float64, iterations int)

	// RecordRollback records one non-converged iteration.
	RecordRollback(ctx context.Context)

	// RecordExchange records one bulk field transfer.
	RecordExchange(ctx context.Context, data, direction string, values int)

	// RecordSolve records a solver invocation with its duration and error status.
	RecordSolve(ctx context.Context, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	windows        metric.Int64Counter
	iterations     metric.Int64Counter
	rollbacks      metric.Int64Counter
	windowStepSize metric.Float64Histogram
	exchangeValues metric.Int64Histogram
	solveLatency   metric.Float64Histogram
	solveErrors    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("coupling")

	windows, err := meter.Int64Counter("coupling.windows",
		metric.WithDescription("Number of committed coupling windows"),
	)
	if err != nil {
		return nil, err
	}

	iterations, err := meter.Int64Counter("coupling.iterations",
		metric.WithDescription("Number of coupling sub-iterations"),
	)
	if err != nil {
		return nil, err
	}

	rollbacks, err := meter.Int64Counter("coupling.rollbacks",
		metric.WithDescription("Number of non-converged iterations rolled back"),
	)
	if err != nil {
		return nil, err
	}

	windowStepSize, err := meter.Float64Histogram("coupling.window.step_size",
		metric.WithDescription("Accepted step size per committed window"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	exchangeValues, err := meter.Int64Histogram("coupling.exchange.values",
		metric.WithDescription("Scalar values per bulk field transfer"),
	)
	if err != nil {
		return nil, err
	}

	solveLatency, err := meter.Float64Histogram("coupling.solve.latency_ms",
		metric.WithDescription("Sub-domain solve latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	solveErrors, err := meter.Int64Counter("coupling.solve.errors",
		metric.WithDescription("Number of failed sub-domain solves"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		windows:        windows,
		iterations:     iterations,
		rollbacks:      rollbacks,
		windowStepSize: windowStepSize,
		exchangeValues: exchangeValues,
		solveLatency:   solveLatency,
		solveErrors:    solveErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by OpenTelemetry.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function. If instrument creation fails,
// a warning is logged and a NoopMetrics is returned instead.
func NewMetricsRecorder(logger *slog.Logger) MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		if logger != nil {
			logger.Warn("metrics disabled", slog.String("error", err.Error()))
		}
		return NoopMetrics{}
	}
	return m
}

// RecordWindow implements MetricsRecorder.
func (m *otelMetrics) RecordWindow(ctx context.Context, dt float64, iterations int) {
	m.windows.Add(ctx, 1)
	m.iterations.Add(ctx, int64(iterations))
	m.windowStepSize.Record(ctx, dt)
}

// RecordRollback implements MetricsRecorder.
func (m *otelMetrics) RecordRollback(ctx context.Context) {
	m.rollbacks.Add(ctx, 1)
}

// RecordExchange implements MetricsRecorder.
func (m *otelMetrics) RecordExchange(ctx context.Context, data, direction string, values int) {
	m.exchangeValues.Record(ctx, int64(values),
		metric.WithAttributes(
			attribute.String("data", data),
			attribute.String("direction", direction),
		),
	)
}

// RecordSolve implements MetricsRecorder.
func (m *otelMetrics) RecordSolve(ctx context.Context, duration time.Duration, err error) {
	m.solveLatency.Record(ctx, float64(duration.Milliseconds()))
	if err != nil {
		m.solveErrors.Add(ctx, 1)
	}
}
