package coupling

// CheckpointPhase is the state of the window checkpoint protocol.
type CheckpointPhase int

const (
	// PhaseIdle means no window is open and no snapshot is held.
	PhaseIdle CheckpointPhase = iota

	// PhaseWindowOpen means a snapshot was taken and the window is
	// being computed.
	PhaseWindowOpen

	// PhaseAwaitingDecision means the window was handed to the peer and
	// the controller holds its verdict: re-iterate or converged.
	PhaseAwaitingDecision
)

// String returns the phase name.
func (p CheckpointPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWindowOpen:
		return "window-open"
	case PhaseAwaitingDecision:
		return "awaiting-decision"
	}
	return "unknown"
}

// CheckpointController drives the save/restore protocol that rolls the
// solver back when a coupling window does not converge.
//
// Separating "did the peer accept this window" (the decision flags) from
// "did a local solve happen" (the phase) lets a driver repeat any number
// of sub-iterations of one window without leaking or double-consuming
// the snapshot. Illegal sequences return an explicit error instead of
// corrupting state.
//
// The snapshot is exclusively owned by the controller between Save() and
// the matching Commit(); restores hand out clones only. Non-convergence
// is not an error: Restore() on a ReadCheckpoint verdict is the expected
// re-iteration path.
type CheckpointController struct {
	peer ActionPeer
	snap Snapshotter

	phase         CheckpointPhase
	snapshot      State
	saved         bool
	writeRequired bool
	readRequired  bool
}

// NewCheckpointController creates a controller for one participant.
// snap is the solver (or the checkpointing slice of it) whose state is
// saved and restored.
func NewCheckpointController(peer ActionPeer, snap Snapshotter) *CheckpointController {
	return &CheckpointController{peer: peer, snap: snap}
}

// Phase returns the current protocol phase.
func (c *CheckpointController) Phase() CheckpointPhase { return c.phase }

// RequiresWrite reports whether the peer asked for a checkpoint write,
// i.e. a new window is starting. Pure read, no transition.
func (c *CheckpointController) RequiresWrite() bool { return c.writeRequired }

// RequiresRead reports whether the peer asked for a checkpoint read,
// i.e. the last window did not converge. Pure read, no transition.
func (c *CheckpointController) RequiresRead() bool { return c.readRequired }

// Save captures the solver state and time at the start of a window and
// opens it. Valid from Idle, or from AwaitingDecision while a rollback
// is pending (the new snapshot supersedes the old one). Only one
// outstanding checkpoint is permitted: Save with the window already open
// fails with ErrInvalidCheckpointSequence.
func (c *CheckpointController) Save() error {
	switch c.phase {
	case PhaseWindowOpen:
		return &ProtocolError{Op: "save", State: c.phase.String(), Err: ErrInvalidCheckpointSequence}
	case PhaseAwaitingDecision:
		if !c.readRequired {
			return &ProtocolError{Op: "save", State: c.phase.String(), Err: ErrInvalidCheckpointSequence}
		}
	}
	if c.snap == nil {
		return &ProtocolError{Op: "save", State: "no solver attached", Err: ErrProtocolViolation}
	}

	c.snapshot = c.snap.CurrentState().Clone()
	c.saved = true
	c.phase = PhaseWindowOpen

	if c.writeRequired {
		c.writeRequired = false
		if err := c.peer.FulfilledAction(ActionWriteCheckpoint); err != nil {
			return err
		}
	}
	return nil
}

// Restore rolls the solver back to the snapshot and reopens the window
// for another iteration. Valid from AwaitingDecision with a
// ReadCheckpoint verdict. Restoring without a prior Save fails with
// ErrNoCheckpointSaved.
func (c *CheckpointController) Restore() error {
	if !c.saved {
		return &ProtocolError{Op: "restore", State: c.phase.String(), Err: ErrNoCheckpointSaved}
	}
	if c.phase != PhaseAwaitingDecision || !c.readRequired {
		return &ProtocolError{Op: "restore", State: c.phase.String(), Err: ErrProtocolViolation}
	}

	c.snap.RestoreState(c.snapshot.Clone())
	c.readRequired = false
	c.phase = PhaseWindowOpen

	return c.peer.FulfilledAction(ActionReadCheckpoint)
}

// Commit accepts the converged window: the snapshot is discarded and the
// controller returns to Idle. Valid from AwaitingDecision with no
// ReadCheckpoint verdict pending.
func (c *CheckpointController) Commit() error {
	if c.phase != PhaseAwaitingDecision || c.readRequired {
		return &ProtocolError{Op: "commit", State: c.phase.String(), Err: ErrProtocolViolation}
	}

	c.snapshot = State{}
	c.saved = false
	c.phase = PhaseIdle
	return nil
}

// observe records the peer's verdict after an advance and moves the
// controller to AwaitingDecision. Called by the session, not by drivers.
func (c *CheckpointController) observe(writeRequired, readRequired bool) {
	c.writeRequired = writeRequired
	c.readRequired = readRequired
	c.phase = PhaseAwaitingDecision
}

// observeInitial samples the action flags right after the handshake,
// before any window exists.
func (c *CheckpointController) observeInitial() {
	c.writeRequired = c.peer.IsActionRequired(ActionWriteCheckpoint)
	c.readRequired = false
}

// windowStart returns the simulation time captured by the last Save,
// if a snapshot is held.
func (c *CheckpointController) windowStart() (float64, bool) {
	return c.snapshot.Time, c.saved
}
