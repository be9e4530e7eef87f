package coupling

//go:generate go tool stringer -type=Action

// Action identifies a peer-requested coupling action.
// The set is closed; code reacting to actions should match exhaustively
// rather than comparing identifier strings from the wire.
type Action int

// Coupling actions the peer may require between windows.
const (
	// ActionWriteCheckpoint asks the participant to snapshot its solver
	// state before computing the window.
	ActionWriteCheckpoint Action = iota

	// ActionReadCheckpoint asks the participant to roll back to the last
	// snapshot because the window did not converge.
	ActionReadCheckpoint

	// ActionWriteInitialData asks the participant to publish its write
	// fields once before the first window.
	ActionWriteInitialData
)

// Direction declares whether a field buffer is pushed to or pulled from
// the peer during an exchange.
type Direction int

const (
	// DirectionRead marks a buffer filled from the peer.
	DirectionRead Direction = iota
	// DirectionWrite marks a buffer pushed to the peer.
	DirectionWrite
)

// String returns "read" or "write".
func (d Direction) String() string {
	if d == DirectionWrite {
		return "write"
	}
	return "read"
}
