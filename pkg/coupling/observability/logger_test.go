package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houkili/dumux-adapter/pkg/coupling/observability"
)

// All logging helpers must be nil-tolerant: a session without a logger
// configured passes nil straight through.
func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		observability.LogAnnounce(nil, "SolidEnergy", 0, 1)
		observability.LogMeshRegistered(nil, "Interface", 4, 2)
		observability.LogInitialized(nil, 0.01)
		observability.LogWindowCommitted(nil, 1, 0.01, 0.01, 3)
		observability.LogWindowRolledBack(nil, 1, 2)
		observability.LogExchange(nil, "Temperature", "Interface", "write", 4)
		observability.LogCheckpointSaved(nil, 1, 100)
		observability.LogFinalized(nil, 10, 1.0)
		observability.LogSessionError(nil, "advance", errors.New("boom"))
	})
}

func TestEnrichLogger(t *testing.T) {
	assert.Nil(t, observability.EnrichLogger(nil, "sess-1234", "SolidEnergy"))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	enriched := observability.EnrichLogger(logger, "sess-1234", "SolidEnergy")
	require.NotNil(t, enriched)
	enriched.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "session_id=sess-1234")
	assert.Contains(t, out, "participant=SolidEnergy")
}

func TestLogHelpers_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	observability.LogWindowCommitted(logger, 3, 0.3, 0.1, 2)
	out := buf.String()
	assert.Contains(t, out, "coupling window committed")
	assert.Contains(t, out, "window=3")
	assert.Contains(t, out, "iterations=2")

	buf.Reset()
	observability.LogWindowRolledBack(logger, 3, 1)
	assert.Contains(t, buf.String(), "coupling window rolled back")

	buf.Reset()
	observability.LogSessionError(logger, "advance", errors.New("peer gone"))
	out = buf.String()
	assert.Contains(t, out, "coupling failed")
	assert.Contains(t, out, "operation=advance")
	assert.Contains(t, out, "peer gone")
}

func TestTimedOperation(t *testing.T) {
	done := observability.TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, 0.0)
}
