package coupling

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/houkili/dumux-adapter/pkg/coupling/observability"
	"github.com/houkili/dumux-adapter/pkg/coupling/runlog"
)

// sessionState is the lifecycle state of a session.
type sessionState int

const (
	stateCreated sessionState = iota
	stateAnnounced
	stateInitialized
	stateFinalized
)

// String returns the state name.
func (s sessionState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateAnnounced:
		return "announced"
	case stateInitialized:
		return "initialized"
	case stateFinalized:
		return "finalized"
	}
	return "unknown"
}

// Session is one coupling participant's view of a partitioned run. It
// owns the peer handle, the registered interface meshes with their field
// buffers, the checkpoint controller, and the step-size negotiator.
//
// A Session is an explicit value owned by the caller, not a process-wide
// singleton, so tests can run several simulated sessions side by side.
// It is not safe for concurrent use: at most one coupling participant
// per process, mutated only on the single control-flow path owning it.
//
// Lifecycle: NewSession, Announce (once), RegisterMesh per interface,
// Initialize (once, blocking handshake), then per window
// ExchangeAndAdvance with checkpoint Save/Restore/Commit around it, and
// finally Finalize (idempotent).
type Session struct {
	sessionConfig

	peer Peer
	id   string

	state      sessionState
	meshes     map[string]*InterfaceMesh
	mappers    map[string]*VertexIndexMapper
	fields     map[string][]*FieldBuffer
	checkpoint *CheckpointController
	negotiator *TimeWindowNegotiator

	window      int
	iterations  int
	currentTime float64
	sessionSpan trace.Span
}

// NewSession creates a session talking to the given peer.
func NewSession(peer Peer, opts ...Option) *Session {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.participant.ApplyDefaults()

	s := &Session{
		sessionConfig: cfg,
		peer:          peer,
		id:            "sess-" + uuid.New().String()[:8],
		meshes:        make(map[string]*InterfaceMesh),
		mappers:       make(map[string]*VertexIndexMapper),
		fields:        make(map[string][]*FieldBuffer),
	}
	s.checkpoint = NewCheckpointController(peer, nil)
	s.negotiator = NewTimeWindowNegotiator(peer, cfg.participant.TimeLoop.MaxStepSize)
	return s
}

// ID returns the session's log/metric correlation ID.
func (s *Session) ID() string { return s.id }

// Checkpoint returns the controller driving the save/restore protocol.
func (s *Session) Checkpoint() *CheckpointController { return s.checkpoint }

// AttachSolver binds the solver whose state is checkpointed. Must be
// called before the first Save.
func (s *Session) AttachSolver(snap Snapshotter) {
	s.checkpoint.snap = snap
}

// Announce names this participant to the peer. Must be called once,
// before any other session operation. configSource is the peer's
// coupling configuration, passed through opaquely.
func (s *Session) Announce(name, configSource string, rank, size int) error {
	if s.state != stateCreated {
		return &ProtocolError{Op: "announce", State: s.state.String(), Err: ErrProtocolViolation}
	}
	if s.participant.Name == "" {
		s.participant.Name = name
	}

	if err := s.peer.Configure(name, configSource, rank, size); err != nil {
		return fmt.Errorf("configure participant %q: %v: %w", name, err, ErrHandshakeFailed)
	}

	s.state = stateAnnounced
	s.logger = observability.EnrichLogger(s.logger, s.id, name)
	observability.LogAnnounce(s.logger, name, rank, size)
	return nil
}

// RegisterMesh registers one interface mesh with the peer: the flat
// coordinate sequence (Dimensions values per vertex) and the local
// entity IDs the vertices belong to, in the same order. Write-once per
// mesh name; re-registration fails with ErrDuplicateMesh.
//
// Fields declared for this mesh in the participant configuration are
// registered along with it.
func (s *Session) RegisterMesh(name string, coordinates []float64, localIDs []EntityID) (*InterfaceMesh, error) {
	switch s.state {
	case stateCreated:
		return nil, &ProtocolError{Op: "register mesh", State: s.state.String(), Err: ErrNotAnnounced}
	case stateInitialized, stateFinalized:
		return nil, &ProtocolError{Op: "register mesh", State: s.state.String(), Err: ErrProtocolViolation}
	}
	if _, dup := s.meshes[name]; dup {
		return nil, fmt.Errorf("mesh %q: %w", name, ErrDuplicateMesh)
	}

	dim := s.peer.Dimensions()
	if dim <= 0 || len(coordinates) != dim*len(localIDs) {
		return nil, fmt.Errorf("mesh %q: %d coordinates for %d entities in %d dimensions: %w",
			name, len(coordinates), len(localIDs), dim, ErrDimensionMismatch)
	}

	vertexIDs, err := s.peer.DefineMesh(name, coordinates)
	if err != nil {
		return nil, fmt.Errorf("define mesh %q: %w", name, err)
	}
	mapper, err := newVertexIndexMapper(name, localIDs, vertexIDs)
	if err != nil {
		return nil, err
	}

	mesh := &InterfaceMesh{
		name:      name,
		dim:       dim,
		coords:    append([]float64(nil), coordinates...),
		vertexIDs: mapper.vertices,
	}
	s.meshes[name] = mesh
	s.mappers[name] = mapper

	if decl, ok := s.participant.MeshNamed(name); ok {
		for _, data := range decl.ReadData {
			if _, err := s.RegisterField(name, data, DirectionRead); err != nil {
				return nil, err
			}
		}
		for _, data := range decl.WriteData {
			if _, err := s.RegisterField(name, data, DirectionWrite); err != nil {
				return nil, err
			}
		}
	}

	observability.LogMeshRegistered(s.logger, name, mesh.NumVertices(), dim)
	return mesh, nil
}

// RegisterField creates the buffer for one exchanged quantity on a
// registered mesh.
func (s *Session) RegisterField(meshName, dataName string, dir Direction) (*FieldBuffer, error) {
	mesh, ok := s.meshes[meshName]
	if !ok {
		return nil, fmt.Errorf("mesh %q: %w", meshName, ErrUnknownMesh)
	}
	for _, f := range s.fields[meshName] {
		if f.name == dataName {
			return nil, fmt.Errorf("field %q on mesh %q registered twice: %w", dataName, meshName, ErrProtocolViolation)
		}
	}

	buf := newFieldBuffer(dataName, mesh, s.mappers[meshName], dir)
	s.fields[meshName] = append(s.fields[meshName], buf)
	return buf, nil
}

// Field returns the buffer for a registered quantity.
func (s *Session) Field(meshName, dataName string) (*FieldBuffer, error) {
	if _, ok := s.meshes[meshName]; !ok {
		return nil, fmt.Errorf("mesh %q: %w", meshName, ErrUnknownMesh)
	}
	for _, f := range s.fields[meshName] {
		if f.name == dataName {
			return f, nil
		}
	}
	return nil, fmt.Errorf("field %q on mesh %q: %w", dataName, meshName, ErrUnknownField)
}

// Mapper returns the index mapper of a registered mesh.
func (s *Session) Mapper(meshName string) (*VertexIndexMapper, error) {
	m, ok := s.mappers[meshName]
	if !ok {
		return nil, fmt.Errorf("mesh %q: %w", meshName, ErrUnknownMesh)
	}
	return m, nil
}

// IsCoupledEntity reports whether the local entity is part of the named
// interface. Total: false for unknown meshes and entities alike.
func (s *Session) IsCoupledEntity(meshName string, local EntityID) bool {
	m, ok := s.mappers[meshName]
	return ok && m.IsCoupled(local)
}

// Initialize completes the blocking handshake with the peer and returns
// the accepted size of the first coupling window. Fails with
// ErrHandshakeFailed if the peer rejects the configuration and with
// ErrDimensionMismatch if the geometric dimensionality disagrees.
// Calling Initialize twice fails with ErrProtocolViolation.
func (s *Session) Initialize() (float64, error) {
	switch s.state {
	case stateCreated:
		return 0, &ProtocolError{Op: "initialize", State: s.state.String(), Err: ErrNotAnnounced}
	case stateInitialized, stateFinalized:
		return 0, &ProtocolError{Op: "initialize", State: s.state.String(), Err: ErrProtocolViolation}
	}

	if dim := s.peer.Dimensions(); dim != s.participant.Dimensions {
		return 0, fmt.Errorf("solver is %d-dimensional, peer interface is %d-dimensional: %w",
			s.participant.Dimensions, dim, ErrDimensionMismatch)
	}

	peerDt, err := s.peer.Initialize()
	if err != nil {
		return 0, fmt.Errorf("initialize: %v: %w", err, ErrHandshakeFailed)
	}
	if peerDt <= 0 {
		return 0, &StepSizeError{Proposed: s.participant.TimeLoop.InitialStepSize, Suggested: peerDt}
	}

	first := s.negotiator.Initial(s.participant.TimeLoop.InitialStepSize, peerDt)
	s.checkpoint.observeInitial()
	s.state = stateInitialized

	if s.tracing {
		_, s.sessionSpan = s.spans.StartSessionSpan(s.ctx, s.participant.Name, s.id)
	}
	observability.LogInitialized(s.logger, first)
	return first, nil
}

// RequiresInitialData reports whether the peer expects the write fields
// to be published once before the first window.
func (s *Session) RequiresInitialData() bool {
	return s.state == stateInitialized && s.peer.IsActionRequired(ActionWriteInitialData)
}

// WriteInitialData pushes all write-direction buffers once before the
// first window and distributes them through the peer.
func (s *Session) WriteInitialData() error {
	if s.state != stateInitialized {
		return &ProtocolError{Op: "write initial data", State: s.state.String(), Err: ErrProtocolViolation}
	}
	if err := s.pushWriteBuffers(); err != nil {
		return err
	}
	if err := s.peer.FulfilledAction(ActionWriteInitialData); err != nil {
		return err
	}
	return s.peer.InitializeData()
}

// IsCouplingOngoing reports whether the coupling scheme expects further
// windows. Pure query.
func (s *Session) IsCouplingOngoing() bool {
	return s.peer.IsCouplingOngoing()
}

// ExchangeAndAdvance pushes all write fields, hands the computed window
// of size proposedDt to the peer, pulls all read fields, and updates the
// checkpoint controller from the peer's verdict.
//
// It returns the accepted size of the next window and whether the
// computed window converged. A false converged flag is not an error: the
// caller restores the checkpoint and repeats the window.
func (s *Session) ExchangeAndAdvance(proposedDt float64) (float64, bool, error) {
	if s.state != stateInitialized {
		return 0, false, &ProtocolError{Op: "advance", State: s.state.String(), Err: ErrProtocolViolation}
	}
	s.iterations++

	if err := s.pushWriteBuffers(); err != nil {
		return 0, false, err
	}

	accepted, err := s.negotiator.Accept(proposedDt)
	if err != nil {
		return 0, false, err
	}

	if err := s.pullReadBuffers(); err != nil {
		return 0, false, err
	}

	writeRequired := s.peer.IsActionRequired(ActionWriteCheckpoint)
	readRequired := s.peer.IsActionRequired(ActionReadCheckpoint)
	s.checkpoint.observe(writeRequired, readRequired)

	if readRequired {
		s.metrics.RecordRollback(s.ctx)
		s.spans.AddSpanEvent(s.ctx, "coupling.rollback", attribute.Int("window", s.window+1))
		observability.LogWindowRolledBack(s.logger, s.window+1, s.iterations)
		return accepted, false, nil
	}

	s.window++
	start, tracked := s.checkpoint.windowStart()
	if !tracked {
		start = s.currentTime
	}
	s.currentTime = start + proposedDt

	s.metrics.RecordWindow(s.ctx, proposedDt, s.iterations)
	s.spans.AddSpanEvent(s.ctx, "coupling.window.committed",
		attribute.Int("window", s.window),
		attribute.Int("iterations", s.iterations),
	)
	observability.LogWindowCommitted(s.logger, s.window, s.currentTime, proposedDt, s.iterations)

	if s.log != nil {
		err := s.log.Append(runlog.WindowRecord{
			Participant: s.participant.Name,
			Window:      s.window,
			StartTime:   start,
			StepSize:    proposedDt,
			Iterations:  s.iterations,
			RecordedAt:  time.Now().UTC(),
		})
		if err != nil {
			return 0, false, fmt.Errorf("record window %d: %w", s.window, err)
		}
	}

	s.iterations = 0
	return accepted, true, nil
}

// Finalize tears the session down. Idempotent: repeated calls are no-ops.
func (s *Session) Finalize() error {
	if s.state == stateFinalized {
		return nil
	}
	prev := s.state
	s.state = stateFinalized

	if s.sessionSpan != nil {
		s.spans.EndSpanWithError(s.sessionSpan, nil)
		s.sessionSpan = nil
	}
	observability.LogFinalized(s.logger, s.window, s.currentTime)

	if prev == stateCreated {
		return nil
	}
	return s.peer.Finalize()
}

// meshNames returns registered mesh names in stable order.
func (s *Session) meshNames() []string {
	names := make([]string, 0, len(s.meshes))
	for name := range s.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Session) pushWriteBuffers() error {
	for _, mesh := range s.meshNames() {
		for _, f := range s.fields[mesh] {
			if f.dir != DirectionWrite {
				continue
			}
			if err := s.peer.WriteBlockScalarData(f.name, mesh, f.mesh.VertexIDs(), f.values); err != nil {
				return &ExchangeError{Data: f.name, Mesh: mesh, Op: "write", Err: err}
			}
			s.metrics.RecordExchange(s.ctx, f.name, DirectionWrite.String(), len(f.values))
			observability.LogExchange(s.logger, f.name, mesh, DirectionWrite.String(), len(f.values))
		}
	}
	return nil
}

func (s *Session) pullReadBuffers() error {
	for _, mesh := range s.meshNames() {
		for _, f := range s.fields[mesh] {
			if f.dir != DirectionRead {
				continue
			}
			if err := s.peer.ReadBlockScalarData(f.name, mesh, f.mesh.VertexIDs(), f.values); err != nil {
				return &ExchangeError{Data: f.name, Mesh: mesh, Op: "read", Err: err}
			}
			s.metrics.RecordExchange(s.ctx, f.name, DirectionRead.String(), len(f.values))
			observability.LogExchange(s.logger, f.name, mesh, DirectionRead.String(), len(f.values))
		}
	}
	return nil
}
