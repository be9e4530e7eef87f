/*
Package coupling mediates partitioned, implicit co-simulation between an
independently discretized sub-domain solver and an external coupling
service (the peer).

# Overview

A coupled problem (a free-flow and a porous-medium solver, or a solid
and a fluid energy solver) is decomposed into separate single-physics
solves advanced in lock-step. The participants exchange boundary data on
a shared interface mesh and iterate each macro time window until the
coupling scheme reports convergence. This package is the adapter a
participant embeds:

  - VertexIndexMapper pairs the solver's entity numbering with the
    peer's interface vertex IDs, bijectively.
  - FieldBuffer holds one exchanged scalar quantity per interface mesh,
    in the peer's vertex order.
  - CheckpointController saves the solver state at the window start and
    rolls it back when the window does not converge.
  - TimeWindowNegotiator reconciles the locally proposed step size with
    the window the coupling scheme allows.
  - Session ties these together and owns the peer handle.

# Basic Usage

	peer := newTransportPeer() // your binding to the coupling service
	session := coupling.NewSession(peer,
	    coupling.WithParticipant(participant),
	    coupling.WithLogger(logger),
	)

	if err := session.Announce("SolidEnergy", "coupling-config.xml", rank, size); err != nil {
	    log.Fatal(err)
	}
	mesh, err := session.RegisterMesh("SolidEnergyMesh", coords, faceIDs)
	if err != nil {
	    log.Fatal(err)
	}
	session.AttachSolver(solver)

	dt, err := session.Initialize()
	if err != nil {
	    log.Fatal(err)
	}

	cp := session.Checkpoint()
	for session.IsCouplingOngoing() {
	    if cp.RequiresWrite() {
	        cp.Save()
	    }
	    // read incoming fields, solve, write outgoing fields ...
	    accepted, converged, err := session.ExchangeAndAdvance(dt)
	    if err != nil {
	        break
	    }
	    if !converged {
	        cp.Restore()
	        continue
	    }
	    cp.Commit()
	    dt = accepted
	}
	session.Finalize()

The driver subpackage packages this loop; the couplingtest subpackage
provides an in-process peer double.

# Error Model

Protocol, mapping, handshake, and step-size errors are fatal to the
session: they are surfaced immediately and never retried, and the only
valid response is to abort after attempting Finalize. Non-convergence of
a window is not an error; it is the expected re-iteration path through
CheckpointController.

# Concurrency

A Session is single-threaded and synchronous. Every peer interaction
blocks the caller, and no concurrent access is supported: one coupling
participant per process, driven from one control-flow path. If the peer
hangs, the adapter blocks; liveness needs an external watchdog.
*/
package coupling
