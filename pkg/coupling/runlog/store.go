// Package runlog persists per-window statistics of a coupled run for
// post-run analysis: how many iterations each window took, which step
// sizes were accepted, and when each window was committed.
package runlog

import (
	"errors"
	"time"
)

// WindowRecord is one committed coupling window.
type WindowRecord struct {
	// Participant is the name of the recording participant.
	Participant string
	// Window is the 1-based index of the window in the run.
	Window int
	// StartTime is the simulation time at the window start.
	StartTime float64
	// StepSize is the accepted window size.
	StepSize float64
	// Iterations is the number of sub-iterations the window needed.
	Iterations int
	// RecordedAt is the wall-clock commit time.
	RecordedAt time.Time
}

// Store persists window records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores a window record.
	// Overwrites if a record for (participant, window) already exists.
	Append(rec WindowRecord) error

	// List returns all records for a participant, ordered by window index.
	// Returns an empty slice (not an error) if none exist.
	List(participant string) ([]WindowRecord, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for run log operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("run log store closed")
)
