package coupling

// AdvancePeer is the slice of Peer the negotiator needs.
type AdvancePeer interface {
	Advance(dt float64) (float64, error)
}

// TimeWindowNegotiator reconciles the step size the local solver
// proposes with the step size the coupling scheme allows.
//
// The accepted step is min(proposed, peer suggested), further capped by
// the configured maximum step size. The peer's suggestion is a hard
// upper bound: a participant overrunning the coupling window would
// desynchronize the lock-step scheme, so the peer constrains, never
// extends, the local proposal.
type TimeWindowNegotiator struct {
	peer        AdvancePeer
	maxStepSize float64
}

// NewTimeWindowNegotiator creates a negotiator. maxStepSize is the local
// stability bound; 0 means unbounded.
func NewTimeWindowNegotiator(peer AdvancePeer, maxStepSize float64) *TimeWindowNegotiator {
	return &TimeWindowNegotiator{peer: peer, maxStepSize: maxStepSize}
}

// Initial reconciles the configured first step with the minimum window
// the peer reported at the handshake. The first step of a run is raised
// to at least the peer's window so sub-cycling solvers do not under-run
// the coupling scheme.
func (n *TimeWindowNegotiator) Initial(localDt, peerReportedDt float64) float64 {
	dt := localDt
	if peerReportedDt > dt {
		dt = peerReportedDt
	}
	if n.maxStepSize > 0 && dt > n.maxStepSize {
		dt = n.maxStepSize
	}
	return dt
}

// Accept hands the computed window of size localDt to the peer and
// returns the accepted size of the next window. Fails with
// ErrInvalidStepSize when the peer reports a non-positive step, which
// means the run ended or the protocol broke; the caller must finalize.
func (n *TimeWindowNegotiator) Accept(localDt float64) (float64, error) {
	if localDt <= 0 {
		return 0, &StepSizeError{Proposed: localDt, Suggested: localDt}
	}

	peerDt, err := n.peer.Advance(localDt)
	if err != nil {
		return 0, err
	}
	if peerDt <= 0 {
		return 0, &StepSizeError{Proposed: localDt, Suggested: peerDt}
	}

	accepted := localDt
	if peerDt < accepted {
		accepted = peerDt
	}
	if n.maxStepSize > 0 && accepted > n.maxStepSize {
		accepted = n.maxStepSize
	}
	return accepted, nil
}
