// Package manifest reads the parts of Cargo.toml that decide whether a crate
// can produce bindings.
package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aurex-audio/aurexgen/internal/env"
	"github.com/aurex-audio/aurexgen/internal/errors"
)

// CrateTypeCdylib is the crate type that makes cargo emit a shared library.
const CrateTypeCdylib = "cdylib"

// Manifest is a minimal Cargo.toml.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Lib struct {
		Name      string   `toml:"name"`
		CrateType []string `toml:"crate-type"`
	} `toml:"lib"`
	Bins         []Bin                  `toml:"bin"`
	Dependencies map[string]interface{} `toml:"dependencies"`

	// Dir is the crate root the manifest was read from.
	Dir string `toml:"-"`
}

// Bin is a [[bin]] target.
type Bin struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Load parses dir/Cargo.toml.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, env.ManifestFile)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Wrapf(err, "no %s in %s", env.ManifestFile, dir),
				"run aurexgen from the crate root or pass --manifest-dir")
		}
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	m.Dir = dir
	return &m, nil
}

// LibName returns the library target name: [lib] name, or the package
// name with dashes replaced the way cargo does.
func (m *Manifest) LibName() string {
	if m.Lib.Name != "" {
		return m.Lib.Name
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_")
}

// HasCdylib reports whether the library target builds a shared library.
func (m *Manifest) HasCdylib() bool {
	return slices.Contains(m.Lib.CrateType, CrateTypeCdylib)
}

// HasBin reports whether the crate has a binary target called name, either
// declared in [[bin]] or discovered by cargo under src/bin.
func (m *Manifest) HasBin(name string) bool {
	for _, b := range m.Bins {
		if b.Name == name {
			return true
		}
	}
	if m.Dir == "" {
		return false
	}
	for _, p := range []string{
		filepath.Join(m.Dir, "src", "bin", name+".rs"),
		filepath.Join(m.Dir, "src", "bin", name, "main.rs"),
	} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// DependsOn reports whether name is a normal dependency of the crate.
func (m *Manifest) DependsOn(name string) bool {
	_, ok := m.Dependencies[name]
	return ok
}

// DependencyVersion returns the version requirement of a dependency, which
// may be a plain string or a table with a version key.
func (m *Manifest) DependencyVersion(name string) string {
	switch v := m.Dependencies[name].(type) {
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v["version"].(string); ok {
			return s
		}
	}
	return ""
}
