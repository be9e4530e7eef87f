package coupling

import "fmt"

// FieldBuffer holds the scalar values of one physical quantity on one
// interface mesh, stored in peer vertex order. Per-entity access goes
// through the mesh's index mapper; the raw slice is what gets shipped to
// the peer in bulk. Buffers for distinct quantity names on the same mesh
// are independent.
//
// A buffer is fully re-filled on every exchange; there is no
// cross-exchange partial-write guarantee.
type FieldBuffer struct {
	name   string
	mesh   *InterfaceMesh
	mapper *VertexIndexMapper
	dir    Direction
	values []float64
}

func newFieldBuffer(name string, mesh *InterfaceMesh, mapper *VertexIndexMapper, dir Direction) *FieldBuffer {
	return &FieldBuffer{
		name:   name,
		mesh:   mesh,
		mapper: mapper,
		dir:    dir,
		values: make([]float64, mesh.NumVertices()),
	}
}

// Name returns the quantity name ("Temperature", "Heat-Flux", ...).
func (f *FieldBuffer) Name() string { return f.name }

// Mesh returns the interface mesh the buffer belongs to.
func (f *FieldBuffer) Mesh() *InterfaceMesh { return f.mesh }

// Direction reports whether the buffer is pushed to or pulled from the peer.
func (f *FieldBuffer) Direction() Direction { return f.dir }

// WriteOnEntity stores value at the position of the local entity.
// Fails with ErrUnknownEntity for unmapped entities, so stale data is
// caught before it reaches the peer.
func (f *FieldBuffer) WriteOnEntity(local EntityID, value float64) error {
	i, err := f.mapper.index(local)
	if err != nil {
		return err
	}
	f.values[i] = value
	return nil
}

// ReadOnEntity returns the value at the position of the local entity.
func (f *FieldBuffer) ReadOnEntity(local EntityID) (float64, error) {
	i, err := f.mapper.index(local)
	if err != nil {
		return 0, err
	}
	return f.values[i], nil
}

// Raw returns the whole peer-ordered value sequence. The slice is the
// buffer's backing storage; bulk exchange reads and writes it in place.
func (f *FieldBuffer) Raw() []float64 { return f.values }

// SetRaw replaces the whole peer-ordered value sequence.
func (f *FieldBuffer) SetRaw(values []float64) error {
	if len(values) != len(f.values) {
		return fmt.Errorf("field %q on mesh %s: got %d values for %d vertices: %w",
			f.name, f.mesh.Name(), len(values), len(f.values), ErrProtocolViolation)
	}
	copy(f.values, values)
	return nil
}
