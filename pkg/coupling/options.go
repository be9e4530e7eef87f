package coupling

import (
	"context"
	"log/slog"

	"github.com/houkili/dumux-adapter/pkg/coupling/config"
	"github.com/houkili/dumux-adapter/pkg/coupling/observability"
	"github.com/houkili/dumux-adapter/pkg/coupling/runlog"
)

// sessionConfig holds the optional collaborators of a session.
type sessionConfig struct {
	ctx         context.Context
	participant config.Participant
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
	tracing     bool
	log         runlog.Store
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		ctx:     context.Background(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Session.
type Option func(*sessionConfig)

// WithParticipant supplies the adapter-side participant configuration:
// declared meshes with their read/write data, and the time loop bounds.
// Without it the session runs on config defaults and explicit
// RegisterField calls.
func WithParticipant(p config.Participant) Option {
	return func(c *sessionConfig) {
		c.participant = p
	}
}

// WithLogger enables structured logging via slog.
// A nil logger disables logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(rec observability.MetricsRecorder) Option {
	return func(c *sessionConfig) {
		if rec != nil {
			c.metrics = rec
		}
	}
}

// WithTracing enables OpenTelemetry spans for the session lifecycle.
// Uses the global tracer provider.
func WithTracing() Option {
	return func(c *sessionConfig) {
		c.tracing = true
		c.spans = observability.NewSpanManager()
	}
}

// WithRunLog records every committed coupling window to the store.
// The caller owns the store and closes it after Finalize.
func WithRunLog(store runlog.Store) Option {
	return func(c *sessionConfig) {
		c.log = store
	}
}

// WithContext sets the context attached to metric and span records.
// It does not introduce cancellation: peer calls block by design.
// Default: context.Background().
func WithContext(ctx context.Context) Option {
	return func(c *sessionConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}
