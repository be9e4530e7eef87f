// Package couplingtest provides an in-process double of the external
// coupling service for tests and examples.
package couplingtest

import (
	"fmt"

	"github.com/houkili/dumux-adapter/pkg/coupling"
)

// Window scripts the peer's verdict for one Advance call.
type Window struct {
	// SuggestedStepSize is returned from Advance. 0 echoes the proposed
	// step back.
	SuggestedStepSize float64

	// RequireReadCheckpoint marks the iteration as non-converged: the
	// participant must roll back and repeat the window.
	RequireReadCheckpoint bool
}

// ScriptedPeer implements coupling.Peer against a fixed script of window
// verdicts. Written field data is stored per (mesh, data) key and echoed
// back on reads, either under the same quantity name (identity echo) or
// routed through the Echo map to simulate the partner writing a
// different quantity.
//
// Like the real service it requires a checkpoint write after the
// handshake and after every converged window while coupling is ongoing.
type ScriptedPeer struct {
	// Dim is the geometric dimension reported to the adapter. Default 2.
	Dim int

	// InitialStepSize is returned from Initialize. Default 1.
	InitialStepSize float64

	// Script holds one entry per expected Advance call.
	Script []Window

	// Echo maps a read quantity name to the written quantity it mirrors.
	// Reads of unmapped names return the values written under the same
	// name, or zeros if none were written.
	Echo map[string]string

	// FailConfigure makes Configure reject the participant.
	FailConfigure bool

	// FailInitialize makes Initialize fail after a successful Configure.
	FailInitialize bool

	// Call record, inspected by tests.
	Configured       bool
	ConfiguredName   string
	ConfiguredSource string
	Initialized      bool
	AdvanceCalls     []float64
	Fulfilled        []coupling.Action
	Writes           []string
	Reads            []string
	Finalized        int

	vertexCount   map[string]int
	data          map[string][]float64
	next          int
	writeRequired bool
	readRequired  bool
	initialData   bool
	nextVertexID  coupling.VertexID
}

// NewScriptedPeer creates a peer double that accepts the given number of
// converged windows, echoing each participant's writes back to it.
func NewScriptedPeer(windows int) *ScriptedPeer {
	p := &ScriptedPeer{}
	for i := 0; i < windows; i++ {
		p.Script = append(p.Script, Window{})
	}
	return p
}

func (p *ScriptedPeer) init() {
	if p.vertexCount == nil {
		p.vertexCount = make(map[string]int)
		p.data = make(map[string][]float64)
		p.nextVertexID = 100
	}
}

// Configure implements coupling.Peer.
func (p *ScriptedPeer) Configure(participant, configSource string, rank, size int) error {
	if p.FailConfigure {
		return fmt.Errorf("participant %q rejected", participant)
	}
	p.Configured = true
	p.ConfiguredName = participant
	p.ConfiguredSource = configSource
	return nil
}

// Dimensions implements coupling.Peer.
func (p *ScriptedPeer) Dimensions() int {
	if p.Dim == 0 {
		return 2
	}
	return p.Dim
}

// DefineMesh implements coupling.Peer. Vertex IDs are assigned
// sequentially starting at 100 so they never collide with local entity
// numbering in tests.
func (p *ScriptedPeer) DefineMesh(meshName string, coordinates []float64) ([]coupling.VertexID, error) {
	p.init()
	if len(coordinates)%p.Dimensions() != 0 {
		return nil, fmt.Errorf("mesh %q: ragged coordinate array", meshName)
	}
	n := len(coordinates) / p.Dimensions()
	ids := make([]coupling.VertexID, n)
	for i := range ids {
		ids[i] = p.nextVertexID
		p.nextVertexID++
	}
	p.vertexCount[meshName] = n
	return ids, nil
}

// Initialize implements coupling.Peer.
func (p *ScriptedPeer) Initialize() (float64, error) {
	if p.FailInitialize {
		return 0, fmt.Errorf("coupling scheme rejected configuration")
	}
	p.init()
	p.Initialized = true
	p.writeRequired = true
	if p.InitialStepSize == 0 {
		return 1, nil
	}
	return p.InitialStepSize, nil
}

// InitializeData implements coupling.Peer.
func (p *ScriptedPeer) InitializeData() error {
	p.initialData = false
	return nil
}

func (p *ScriptedPeer) key(dataName, meshName string) string {
	return meshName + "/" + dataName
}

// WriteBlockScalarData implements coupling.Peer.
func (p *ScriptedPeer) WriteBlockScalarData(dataName, meshName string, vertexIDs []coupling.VertexID, values []float64) error {
	p.init()
	if len(vertexIDs) != len(values) {
		return fmt.Errorf("write %q: %d ids for %d values", dataName, len(vertexIDs), len(values))
	}
	p.Writes = append(p.Writes, p.key(dataName, meshName))
	p.data[p.key(dataName, meshName)] = append([]float64(nil), values...)
	return nil
}

// ReadBlockScalarData implements coupling.Peer.
func (p *ScriptedPeer) ReadBlockScalarData(dataName, meshName string, vertexIDs []coupling.VertexID, out []float64) error {
	p.init()
	if len(vertexIDs) != len(out) {
		return fmt.Errorf("read %q: %d ids for %d values", dataName, len(vertexIDs), len(out))
	}
	p.Reads = append(p.Reads, p.key(dataName, meshName))

	source := dataName
	if mapped, ok := p.Echo[dataName]; ok {
		source = mapped
	}
	stored, ok := p.data[p.key(source, meshName)]
	if !ok {
		for i := range out {
			out[i] = 0
		}
		return nil
	}
	copy(out, stored)
	return nil
}

// Advance implements coupling.Peer.
func (p *ScriptedPeer) Advance(dt float64) (float64, error) {
	p.AdvanceCalls = append(p.AdvanceCalls, dt)
	if p.next >= len(p.Script) {
		return 0, nil
	}

	w := p.Script[p.next]
	p.next++

	p.readRequired = w.RequireReadCheckpoint
	p.writeRequired = !w.RequireReadCheckpoint && p.remaining() > 0

	if w.SuggestedStepSize != 0 {
		return w.SuggestedStepSize, nil
	}
	return dt, nil
}

// remaining counts the scripted verdicts not yet consumed.
func (p *ScriptedPeer) remaining() int {
	return len(p.Script) - p.next
}

// IsActionRequired implements coupling.Peer.
func (p *ScriptedPeer) IsActionRequired(action coupling.Action) bool {
	switch action {
	case coupling.ActionWriteCheckpoint:
		return p.writeRequired
	case coupling.ActionReadCheckpoint:
		return p.readRequired
	case coupling.ActionWriteInitialData:
		return p.initialData
	}
	return false
}

// FulfilledAction implements coupling.Peer.
func (p *ScriptedPeer) FulfilledAction(action coupling.Action) error {
	p.Fulfilled = append(p.Fulfilled, action)
	switch action {
	case coupling.ActionWriteCheckpoint:
		p.writeRequired = false
	case coupling.ActionReadCheckpoint:
		p.readRequired = false
	case coupling.ActionWriteInitialData:
		p.initialData = false
	}
	return nil
}

// RequireInitialData makes the peer demand the write-initial-data action
// after Initialize.
func (p *ScriptedPeer) RequireInitialData() {
	p.initialData = true
}

// IsCouplingOngoing implements coupling.Peer.
func (p *ScriptedPeer) IsCouplingOngoing() bool {
	return p.Initialized && (p.remaining() > 0 || p.readRequired)
}

// Finalize implements coupling.Peer.
func (p *ScriptedPeer) Finalize() error {
	p.Finalized++
	return nil
}

// FulfilledCount returns how often the given action was fulfilled.
func (p *ScriptedPeer) FulfilledCount(action coupling.Action) int {
	n := 0
	for _, a := range p.Fulfilled {
		if a == action {
			n++
		}
	}
	return n
}

// Stored returns the values last written for a quantity on a mesh.
func (p *ScriptedPeer) Stored(dataName, meshName string) []float64 {
	return p.data[p.key(dataName, meshName)]
}

var _ coupling.Peer = (*ScriptedPeer)(nil)
