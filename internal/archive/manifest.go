package archive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a package's human-editable project file, flux.yaml (spec
// §6.2): name, version, and the dependency aliases fed to
// symbol.DependencyManager before compiling.
//
// Grounded on the teacher's internal/eval_harness/spec.go BenchmarkSpec +
// LoadSpec: a plain yaml-tagged struct loaded with gopkg.in/yaml.v3 and
// os.ReadFile, with minimal required-field validation after unmarshaling.
type Manifest struct {
	Name         string            `yaml:"name"`
	Version      string            `yaml:"version"`
	Dependencies map[string]string `yaml:"dependencies"`
}

// LoadManifest reads and parses a flux.yaml file at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("archive: failed to parse manifest: %w", err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("archive: manifest missing required field: name")
	}
	if m.Version == "" {
		return nil, fmt.Errorf("archive: manifest missing required field: version")
	}

	return &m, nil
}

// WriteManifest serializes m back to YAML at path (0644), for `fluxc init`
// style tooling.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("archive: failed to render manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
