package coupling

// Peer is the external coupling service the session talks to.
// Every call blocks until the peer answers; the adapter performs no
// retries and no overlap of computation with communication.
//
// Implementations wrap the actual transport to the partner process.
// couplingtest.ScriptedPeer provides an in-process double for tests
// and examples.
type Peer interface {
	// Configure announces the participant to the coupling service.
	// configSource names the coupling configuration understood by the
	// peer; the adapter passes it through opaquely.
	Configure(participant, configSource string, rank, size int) error

	// Dimensions reports the geometric dimensionality of the coupled
	// interface (2 or 3).
	Dimensions() int

	// DefineMesh registers the interface vertices with the peer.
	// coordinates holds Dimensions() values per vertex, flattened.
	// The returned vertex IDs correspond positionally to the input.
	DefineMesh(meshName string, coordinates []float64) ([]VertexID, error)

	// Initialize completes the handshake and returns the first maximum
	// window size the coupling scheme allows.
	Initialize() (float64, error)

	// InitializeData distributes initial field values after the
	// write-initial-data action has been fulfilled.
	InitializeData() error

	// WriteBlockScalarData pushes one field buffer in peer vertex order.
	WriteBlockScalarData(dataName, meshName string, vertexIDs []VertexID, values []float64) error

	// ReadBlockScalarData fills out with the field values in peer vertex
	// order. len(out) must equal len(vertexIDs).
	ReadBlockScalarData(dataName, meshName string, vertexIDs []VertexID, out []float64) error

	// Advance hands the computed window to the coupling scheme and
	// returns the maximum size of the next window.
	Advance(dt float64) (float64, error)

	// IsActionRequired reports whether the peer currently requires the
	// given action. Pure query, no transition.
	IsActionRequired(action Action) bool

	// FulfilledAction tells the peer the required action was performed.
	FulfilledAction(action Action) error

	// IsCouplingOngoing reports whether the coupling scheme expects
	// further windows.
	IsCouplingOngoing() bool

	// Finalize tears down the connection to the coupling service.
	Finalize() error
}

// ActionPeer is the slice of Peer the checkpoint controller needs.
type ActionPeer interface {
	IsActionRequired(action Action) bool
	FulfilledAction(action Action) error
}
