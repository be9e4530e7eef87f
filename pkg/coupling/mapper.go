package coupling

import "fmt"

// VertexIndexMapper is a bijective map between local entity IDs and the
// peer's vertex IDs, scoped to one interface mesh. The bijection is
// enforced at construction: duplicate entities or vertices are rejected
// rather than silently shadowed.
type VertexIndexMapper struct {
	mesh     string
	entities []EntityID
	vertices []VertexID
	position map[EntityID]int
	toLocal  map[VertexID]EntityID
}

// newVertexIndexMapper pairs entities[i] with vertices[i] for all i.
func newVertexIndexMapper(mesh string, entities []EntityID, vertices []VertexID) (*VertexIndexMapper, error) {
	if len(entities) != len(vertices) {
		return nil, fmt.Errorf("mesh %s: %d entities for %d vertices: %w",
			mesh, len(entities), len(vertices), ErrProtocolViolation)
	}

	m := &VertexIndexMapper{
		mesh:     mesh,
		entities: append([]EntityID(nil), entities...),
		vertices: append([]VertexID(nil), vertices...),
		position: make(map[EntityID]int, len(entities)),
		toLocal:  make(map[VertexID]EntityID, len(vertices)),
	}

	for i, e := range entities {
		if _, dup := m.position[e]; dup {
			return nil, fmt.Errorf("mesh %s: entity %d paired twice: %w", mesh, e, ErrProtocolViolation)
		}
		v := vertices[i]
		if _, dup := m.toLocal[v]; dup {
			return nil, fmt.Errorf("mesh %s: vertex %d paired twice: %w", mesh, v, ErrProtocolViolation)
		}
		m.position[e] = i
		m.toLocal[v] = e
	}

	return m, nil
}

// ToPeerID returns the peer vertex ID paired with the local entity.
func (m *VertexIndexMapper) ToPeerID(local EntityID) (VertexID, error) {
	i, ok := m.position[local]
	if !ok {
		return 0, &EntityError{Mesh: m.mesh, Entity: local, Err: ErrUnknownEntity}
	}
	return m.vertices[i], nil
}

// ToLocalID returns the local entity paired with the peer vertex ID.
func (m *VertexIndexMapper) ToLocalID(vertex VertexID) (EntityID, error) {
	e, ok := m.toLocal[vertex]
	if !ok {
		return 0, &EntityError{Mesh: m.mesh, Vertex: vertex, Err: ErrUnknownVertex}
	}
	return e, nil
}

// IsCoupled reports whether the local entity takes part in the coupling.
// Total and side-effect free.
func (m *VertexIndexMapper) IsCoupled(local EntityID) bool {
	_, ok := m.position[local]
	return ok
}

// index returns the buffer position for the local entity.
func (m *VertexIndexMapper) index(local EntityID) (int, error) {
	i, ok := m.position[local]
	if !ok {
		return 0, &EntityError{Mesh: m.mesh, Entity: local, Err: ErrUnknownEntity}
	}
	return i, nil
}

// Len returns the number of coupled entities.
func (m *VertexIndexMapper) Len() int { return len(m.entities) }
