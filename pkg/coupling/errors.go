package coupling

import (
	"errors"
	"fmt"
)

// Sentinel errors for the session lifecycle.
var (
	// ErrNotAnnounced indicates a session operation before Announce().
	ErrNotAnnounced = errors.New("participant not announced")

	// ErrProtocolViolation indicates an out-of-order coupling call.
	ErrProtocolViolation = errors.New("coupling protocol violation")

	// ErrHandshakeFailed indicates the peer rejected the participant configuration.
	ErrHandshakeFailed = errors.New("peer handshake failed")

	// ErrDimensionMismatch indicates the solver and peer disagree on geometric dimension.
	ErrDimensionMismatch = errors.New("geometric dimensions do not match")
)

// Sentinel errors for index mapping and field access.
var (
	// ErrUnknownEntity indicates a local entity that was never registered.
	ErrUnknownEntity = errors.New("entity not coupled")

	// ErrUnknownVertex indicates a peer vertex ID with no local counterpart.
	ErrUnknownVertex = errors.New("unknown peer vertex")

	// ErrUnknownMesh indicates an interface mesh that was never registered.
	ErrUnknownMesh = errors.New("mesh not registered")

	// ErrDuplicateMesh indicates re-registration of a mesh name.
	ErrDuplicateMesh = errors.New("mesh already registered")

	// ErrUnknownField indicates a quantity name with no buffer on the mesh.
	ErrUnknownField = errors.New("field not registered")
)

// Sentinel errors for window control.
var (
	// ErrInvalidCheckpointSequence indicates Save() with a window already open.
	ErrInvalidCheckpointSequence = errors.New("invalid checkpoint sequence")

	// ErrNoCheckpointSaved indicates Restore() without a prior Save().
	ErrNoCheckpointSaved = errors.New("no checkpoint saved")

	// ErrInvalidStepSize indicates the peer reported a non-positive window size.
	ErrInvalidStepSize = errors.New("invalid time step size")
)

// ProtocolError wraps an out-of-order call with session context.
// All protocol errors are fatal to the session; the driver's only valid
// response is to abort after attempting Finalize().
type ProtocolError struct {
	// Op is the operation that was attempted ("save", "initialize", ...).
	Op string
	// State describes the session or checkpoint state at the violation.
	State string
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s in state %s: %v", e.Op, e.State, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is/As support.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// EntityError wraps an index-mapping miss with the mesh and identifier involved.
type EntityError struct {
	// Mesh is the interface mesh the lookup was scoped to.
	Mesh string
	// Entity is the local entity ID, for ErrUnknownEntity.
	Entity EntityID
	// Vertex is the peer vertex ID, for ErrUnknownVertex.
	Vertex VertexID
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *EntityError) Error() string {
	if errors.Is(e.Err, ErrUnknownVertex) {
		return fmt.Sprintf("mesh %s: vertex %d: %v", e.Mesh, e.Vertex, e.Err)
	}
	return fmt.Sprintf("mesh %s: entity %d: %v", e.Mesh, e.Entity, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is/As support.
func (e *EntityError) Unwrap() error {
	return e.Err
}

// ExchangeError wraps a failed bulk data transfer with the peer.
type ExchangeError struct {
	// Data is the quantity name being exchanged.
	Data string
	// Mesh is the interface mesh the buffer belongs to.
	Mesh string
	// Op is the direction of the failed transfer ("write", "read").
	Op string
	// Err is the underlying error from the peer.
	Err error
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s %q on mesh %s: %v", e.Op, e.Data, e.Mesh, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// StepSizeError reports the step sizes involved in a rejected window.
type StepSizeError struct {
	// Proposed is the step size the local solver proposed.
	Proposed float64
	// Suggested is the step size the peer reported.
	Suggested float64
}

// Error implements the error interface.
func (e *StepSizeError) Error() string {
	return fmt.Sprintf("peer suggested step %g for proposed %g: %v", e.Suggested, e.Proposed, ErrInvalidStepSize)
}

// Unwrap returns ErrInvalidStepSize for errors.Is support.
func (e *StepSizeError) Unwrap() error {
	return ErrInvalidStepSize
}
