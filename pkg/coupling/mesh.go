package coupling

// EntityID identifies a local geometric entity (a boundary face or
// sub-control-volume face index) in the solver's own numbering.
type EntityID int

// VertexID identifies an interface vertex in the peer's numbering.
type VertexID int

// InterfaceMesh is one named coupling interface: the registered vertex
// coordinates and the vertex IDs the peer assigned to them. Created once
// at registration and immutable afterwards.
type InterfaceMesh struct {
	name      string
	dim       int
	coords    []float64
	vertexIDs []VertexID
}

// Name returns the mesh name.
func (m *InterfaceMesh) Name() string { return m.name }

// Dimensions returns the geometric dimension of the vertex coordinates.
func (m *InterfaceMesh) Dimensions() int { return m.dim }

// NumVertices returns the number of coupled vertices.
func (m *InterfaceMesh) NumVertices() int { return len(m.vertexIDs) }

// VertexIDs returns the peer-assigned vertex IDs in registration order.
// The returned slice must not be modified.
func (m *InterfaceMesh) VertexIDs() []VertexID { return m.vertexIDs }

// VertexCoordinates returns the dim coordinates of the vertex at
// position i in registration order.
func (m *InterfaceMesh) VertexCoordinates(i int) []float64 {
	return m.coords[i*m.dim : (i+1)*m.dim]
}
