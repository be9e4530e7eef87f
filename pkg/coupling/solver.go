package coupling

// State is a checkpointed solver state: the solution vector and the
// simulation time it belongs to. The controller always works on clones,
// so the copy cost is visible here rather than hidden in a container.
type State struct {
	// Solution is the solver's degrees of freedom.
	Solution []float64
	// Time is the simulation time the solution belongs to.
	Time float64
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Time: s.Time}
	if s.Solution != nil {
		out.Solution = make([]float64, len(s.Solution))
		copy(out.Solution, s.Solution)
	}
	return out
}

// Convergence reports the outcome of one nonlinear solve.
type Convergence struct {
	// Converged is true if the solve met its tolerance.
	Converged bool
	// Iterations is the number of nonlinear iterations used.
	Iterations int
	// SuggestedStepSize is the solver's preferred next step, 0 if none.
	SuggestedStepSize float64
}

// Solver is the opaque sub-domain solver collaborator. The adapter never
// looks inside it; it only snapshots, restores, and advances it.
type Solver interface {
	// ApplyInitialSolution sets the initial condition.
	ApplyInitialSolution()

	// CurrentState returns a snapshot of the solution and time.
	CurrentState() State

	// RestoreState replaces the solution and time from a snapshot.
	RestoreState(s State)

	// AdvanceTimeStep shifts the current solution into the previous one.
	AdvanceTimeStep()

	// Solve computes one step of size dt.
	Solve(dt float64) (Convergence, error)
}

// Snapshotter is the checkpointing slice of Solver.
type Snapshotter interface {
	CurrentState() State
	RestoreState(s State)
}
