// Package config declares the adapter-side coupling configuration: which
// participant this process is, which interface meshes it couples on, and
// which quantities it reads and writes there.
//
// This is the adapter's own surface. The peer's coupling configuration
// (exchange schedule, convergence measures) is passed through opaquely as
// the config source string at Announce.
package config

import (
	"errors"
	"fmt"
)

// Defaults applied by Participant.ApplyDefaults.
const (
	DefaultDimensions      = 2
	DefaultInitialStepSize = 1e-2
)

// Participant describes one coupling participant.
type Participant struct {
	// Name is the participant name announced to the peer.
	Name string `yaml:"name" json:"name"`

	// Dimensions is the geometric dimension of the solver's grid.
	// Checked against the peer at Initialize.
	Dimensions int `yaml:"dimensions" json:"dimensions"`

	// Meshes lists the interface meshes this participant couples on.
	Meshes []Mesh `yaml:"meshes" json:"meshes"`

	// TimeLoop configures the window sizes of the run.
	TimeLoop TimeLoop `yaml:"time_loop" json:"time_loop"`
}

// Mesh names one interface mesh and the quantities exchanged on it.
type Mesh struct {
	// Name is the mesh name shared with the peer.
	Name string `yaml:"name" json:"name"`

	// ReadData lists quantity names pulled from the peer each window.
	ReadData []string `yaml:"read_data" json:"read_data"`

	// WriteData lists quantity names pushed to the peer each window.
	WriteData []string `yaml:"write_data" json:"write_data"`
}

// TimeLoop configures the local view of the coupling windows.
type TimeLoop struct {
	// InitialStepSize is the first step the participant proposes.
	InitialStepSize float64 `yaml:"initial_step_size" json:"initial_step_size"`

	// MaxStepSize is the local stability bound. 0 means unbounded.
	MaxStepSize float64 `yaml:"max_step_size" json:"max_step_size"`

	// EndTime stops the local time loop even if the peer keeps
	// coupling. 0 means run until the peer stops.
	EndTime float64 `yaml:"end_time" json:"end_time"`
}

// ErrInvalid is returned by Validate for a malformed configuration.
var ErrInvalid = errors.New("invalid coupling configuration")

// ApplyDefaults fills unset fields with the package defaults.
func (p *Participant) ApplyDefaults() {
	if p.Dimensions == 0 {
		p.Dimensions = DefaultDimensions
	}
	if p.TimeLoop.InitialStepSize == 0 {
		p.TimeLoop.InitialStepSize = DefaultInitialStepSize
	}
}

// Validate checks the configuration for internal consistency.
func (p *Participant) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("participant name missing: %w", ErrInvalid)
	}
	if p.Dimensions != 2 && p.Dimensions != 3 {
		return fmt.Errorf("dimensions must be 2 or 3, got %d: %w", p.Dimensions, ErrInvalid)
	}
	if p.TimeLoop.InitialStepSize <= 0 {
		return fmt.Errorf("initial step size must be positive: %w", ErrInvalid)
	}
	if p.TimeLoop.MaxStepSize < 0 || p.TimeLoop.EndTime < 0 {
		return fmt.Errorf("negative time loop bound: %w", ErrInvalid)
	}

	seen := make(map[string]bool, len(p.Meshes))
	for _, m := range p.Meshes {
		if m.Name == "" {
			return fmt.Errorf("mesh name missing: %w", ErrInvalid)
		}
		if seen[m.Name] {
			return fmt.Errorf("mesh %q declared twice: %w", m.Name, ErrInvalid)
		}
		seen[m.Name] = true

		data := make(map[string]bool, len(m.ReadData)+len(m.WriteData))
		for _, d := range append(append([]string(nil), m.ReadData...), m.WriteData...) {
			if d == "" {
				return fmt.Errorf("mesh %q: empty data name: %w", m.Name, ErrInvalid)
			}
			if data[d] {
				return fmt.Errorf("mesh %q: data %q declared twice: %w", m.Name, d, ErrInvalid)
			}
			data[d] = true
		}
	}
	return nil
}

// MeshNamed returns the declaration for the named mesh, if present.
func (p *Participant) MeshNamed(name string) (Mesh, bool) {
	for _, m := range p.Meshes {
		if m.Name == name {
			return m, true
		}
	}
	return Mesh{}, false
}
