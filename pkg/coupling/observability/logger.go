// Package observability provides structured logging, metrics, and
// tracing for the coupling adapter.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds coupling context to a logger.
// Returns a new logger with session_id and participant fields.
func EnrichLogger(logger *slog.Logger, sessionID, participant string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("participant", participant),
	)
}

// LogAnnounce logs the participant announcing itself to the peer.
func LogAnnounce(logger *slog.Logger, participant string, rank, size int) {
	if logger == nil {
		return
	}
	logger.Info("participant announced",
		slog.String("participant", participant),
		slog.Int("rank", rank),
		slog.Int("size", size),
	)
}

// LogMeshRegistered logs a completed interface mesh registration.
func LogMeshRegistered(logger *slog.Logger, mesh string, vertices, dim int) {
	if logger == nil {
		return
	}
	logger.Info("interface mesh registered",
		slog.String("mesh", mesh),
		slog.Int("vertices", vertices),
		slog.Int("dimensions", dim),
	)
}

// LogInitialized logs a successful handshake.
func LogInitialized(logger *slog.Logger, firstStepSize float64) {
	if logger == nil {
		return
	}
	logger.Info("coupling initialized",
		slog.Float64("first_step_size", firstStepSize),
	)
}

// LogWindowCommitted logs a converged coupling window.
func LogWindowCommitted(logger *slog.Logger, window int, endTime, dt float64, iterations int) {
	if logger == nil {
		return
	}
	logger.Info("coupling window committed",
		slog.Int("window", window),
		slog.Float64("end_time", endTime),
		slog.Float64("step_size", dt),
		slog.Int("iterations", iterations),
	)
}

// LogWindowRolledBack logs a non-converged iteration being repeated.
// Rollback is the expected re-iteration path, not a failure.
func LogWindowRolledBack(logger *slog.Logger, window, iteration int) {
	if logger == nil {
		return
	}
	logger.Debug("coupling window rolled back",
		slog.Int("window", window),
		slog.Int("iteration", iteration),
	)
}

// LogExchange logs one bulk field transfer.
func LogExchange(logger *slog.Logger, data, mesh, direction string, values int) {
	if logger == nil {
		return
	}
	logger.Debug("field exchanged",
		slog.String("data", data),
		slog.String("mesh", mesh),
		slog.String("direction", direction),
		slog.Int("values", values),
	)
}

// LogCheckpointSaved logs a solver state snapshot.
func LogCheckpointSaved(logger *slog.Logger, window int, dofs int) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint saved",
		slog.Int("window", window),
		slog.Int("dofs", dofs),
	)
}

// LogFinalized logs session teardown.
func LogFinalized(logger *slog.Logger, windows int, finalTime float64) {
	if logger == nil {
		return
	}
	logger.Info("coupling finalized",
		slog.Int("windows", windows),
		slog.Float64("final_time", finalTime),
	)
}

// LogSessionError logs a fatal session error.
func LogSessionError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Error("coupling failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
