package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the top-level sig.yml configuration: which libraries and
// extra paths the loader should add, and whether to skip the embedded
// core library (spec §6's `add(library)` / `add(path)` / `no_builtin!`
// loader protocol, given a declarative face).
type Manifest struct {
	// Libraries lists named libraries to resolve from the library search
	// path (e.g. under $SIG_LIBRARY_PATH/<name>/<version>).
	Libraries []LibraryRef `yaml:"libraries,omitempty"`

	// Paths lists extra directories to load signature files from directly.
	Paths []string `yaml:"paths,omitempty"`

	// NoBuiltin skips loading the embedded core library signatures.
	NoBuiltin bool `yaml:"no_builtin,omitempty"`
}

// LibraryRef names a library and an optional version constraint.
type LibraryRef struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

// LoadManifest reads and parses a sig.yml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses sig.yml content from bytes. path is used only for
// error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate(path string) error {
	for i, lib := range m.Libraries {
		if lib.Name == "" {
			return fmt.Errorf("%s: libraries[%d]: name is required", path, i)
		}
	}
	return nil
}

// FindManifest searches for sig.yml starting from dir and walking up to
// parent directories, the way a .gitignore is found. Returns "" if none
// exists anywhere above dir.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range ManifestFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
