package organism

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDefinition reads and validates an organism Definition from a YAML
// document at path. This is the config-loading concern of the ambient
// stack: vessel/nerve taxonomies stay data (not compiled Go types), loaded
// the way qubicDB-qubicdb loads its own YAML settings.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading organism definition %q: %w", path, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition parses and validates a Definition from raw YAML bytes.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing organism definition: %w", err)
	}
	if def.DefaultDigestionDurationSeconds <= 0 {
		def.DefaultDigestionDurationSeconds = 60.0
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validating organism definition %q: %w", def.Name, err)
	}
	return &def, nil
}
