package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a participant configuration from a file, auto-detecting
// the format by extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Participant{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Participant{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a validated Participant.
func FromYAML(data []byte) (Participant, error) {
	var p Participant
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Participant{}, fmt.Errorf("parse yaml: %w", err)
	}
	return finish(p)
}

// FromJSON parses JSON data into a validated Participant.
func FromJSON(data []byte) (Participant, error) {
	var p Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return Participant{}, fmt.Errorf("parse json: %w", err)
	}
	return finish(p)
}

func finish(p Participant) (Participant, error) {
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return Participant{}, err
	}
	return p, nil
}
