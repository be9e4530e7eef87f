package coupling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexIndexMapper_RoundTrip(t *testing.T) {
	entities := []EntityID{12, 7, 42, 3}
	vertices := []VertexID{100, 101, 102, 103}

	m, err := newVertexIndexMapper("Interface", entities, vertices)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())

	for _, e := range entities {
		v, err := m.ToPeerID(e)
		require.NoError(t, err)

		back, err := m.ToLocalID(v)
		require.NoError(t, err)

		again, err := m.ToPeerID(back)
		require.NoError(t, err)
		assert.Equal(t, v, again)
	}
}

func TestVertexIndexMapper_UnknownEntity(t *testing.T) {
	m, err := newVertexIndexMapper("Interface", []EntityID{1, 2}, []VertexID{10, 11})
	require.NoError(t, err)

	_, err = m.ToPeerID(99)
	assert.ErrorIs(t, err, ErrUnknownEntity)

	var entityErr *EntityError
	require.ErrorAs(t, err, &entityErr)
	assert.Equal(t, "Interface", entityErr.Mesh)
	assert.Equal(t, EntityID(99), entityErr.Entity)
}

func TestVertexIndexMapper_UnknownVertex(t *testing.T) {
	m, err := newVertexIndexMapper("Interface", []EntityID{1, 2}, []VertexID{10, 11})
	require.NoError(t, err)

	_, err = m.ToLocalID(99)
	assert.ErrorIs(t, err, ErrUnknownVertex)
}

func TestVertexIndexMapper_IsCoupled(t *testing.T) {
	m, err := newVertexIndexMapper("Interface", []EntityID{5}, []VertexID{50})
	require.NoError(t, err)

	assert.True(t, m.IsCoupled(5))
	assert.False(t, m.IsCoupled(6))
	assert.False(t, m.IsCoupled(-1))
}

func TestVertexIndexMapper_RejectsBrokenBijection(t *testing.T) {
	tests := []struct {
		name     string
		entities []EntityID
		vertices []VertexID
	}{
		{"length mismatch", []EntityID{1, 2}, []VertexID{10}},
		{"duplicate entity", []EntityID{1, 1}, []VertexID{10, 11}},
		{"duplicate vertex", []EntityID{1, 2}, []VertexID{10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newVertexIndexMapper("Interface", tt.entities, tt.vertices)
			assert.ErrorIs(t, err, ErrProtocolViolation)
		})
	}
}
