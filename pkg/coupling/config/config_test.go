package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houkili/dumux-adapter/pkg/coupling/config"
)

const sampleYAML = `
name: SolidEnergy
dimensions: 2
meshes:
  - name: Interface
    read_data: [Heat-Flux]
    write_data: [Temperature]
time_loop:
  initial_step_size: 0.01
  max_step_size: 0.1
  end_time: 1.0
`

func TestFromYAML(t *testing.T) {
	p, err := config.FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "SolidEnergy", p.Name)
	assert.Equal(t, 2, p.Dimensions)
	require.Len(t, p.Meshes, 1)
	assert.Equal(t, "Interface", p.Meshes[0].Name)
	assert.Equal(t, []string{"Heat-Flux"}, p.Meshes[0].ReadData)
	assert.Equal(t, []string{"Temperature"}, p.Meshes[0].WriteData)
	assert.Equal(t, 0.01, p.TimeLoop.InitialStepSize)
	assert.Equal(t, 0.1, p.TimeLoop.MaxStepSize)
	assert.Equal(t, 1.0, p.TimeLoop.EndTime)
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"name": "FreeFlow",
		"dimensions": 3,
		"meshes": [{"name": "Interface", "read_data": ["Temperature"]}],
		"time_loop": {"initial_step_size": 0.5}
	}`)

	p, err := config.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "FreeFlow", p.Name)
	assert.Equal(t, 3, p.Dimensions)
	assert.Equal(t, 0.5, p.TimeLoop.InitialStepSize)
}

func TestFromYAML_AppliesDefaults(t *testing.T) {
	p, err := config.FromYAML([]byte(`name: SolidEnergy`))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDimensions, p.Dimensions)
	assert.Equal(t, config.DefaultInitialStepSize, p.TimeLoop.InitialStepSize)
	assert.Equal(t, 0.0, p.TimeLoop.MaxStepSize)
	assert.Equal(t, 0.0, p.TimeLoop.EndTime)
}

func TestFromYAML_Malformed(t *testing.T) {
	_, err := config.FromYAML([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	p, err := config.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SolidEnergy", p.Name)
}

func TestFromFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participant.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = 'x'"), 0o644))

	_, err := config.FromFile(path)
	assert.ErrorContains(t, err, "unsupported config file extension")
}

func TestFromFile_Missing(t *testing.T) {
	_, err := config.FromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() config.Participant {
		p, err := config.FromYAML([]byte(sampleYAML))
		require.NoError(t, err)
		return p
	}

	tests := []struct {
		name   string
		mutate func(*config.Participant)
	}{
		{"missing name", func(p *config.Participant) { p.Name = "" }},
		{"bad dimensions", func(p *config.Participant) { p.Dimensions = 4 }},
		{"zero step size", func(p *config.Participant) { p.TimeLoop.InitialStepSize = 0 }},
		{"negative max step", func(p *config.Participant) { p.TimeLoop.MaxStepSize = -1 }},
		{"negative end time", func(p *config.Participant) { p.TimeLoop.EndTime = -1 }},
		{"unnamed mesh", func(p *config.Participant) { p.Meshes[0].Name = "" }},
		{"duplicate mesh", func(p *config.Participant) { p.Meshes = append(p.Meshes, p.Meshes[0]) }},
		{"empty data name", func(p *config.Participant) { p.Meshes[0].ReadData = []string{""} }},
		{"data declared twice", func(p *config.Participant) {
			p.Meshes[0].ReadData = append(p.Meshes[0].ReadData, "Temperature")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), config.ErrInvalid)
		})
	}
}

func TestMeshNamed(t *testing.T) {
	p, err := config.FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	m, ok := p.MeshNamed("Interface")
	assert.True(t, ok)
	assert.Equal(t, "Interface", m.Name)

	_, ok = p.MeshNamed("NoSuchMesh")
	assert.False(t, ok)
}
