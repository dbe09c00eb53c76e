// Package manifest handles bindgen.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "bindgen.toml"

// Manifest represents a bindgen.toml configuration.
type Manifest struct {
	Generate Generate `toml:"generate"`
	Sites    []Site   `toml:"site"`

	// Dir is the directory containing the bindgen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Generate holds defaults shared by every site.
type Generate struct {
	Naming      string `toml:"naming"`
	Suffix      string `toml:"suffix"`
	Descriptors bool   `toml:"descriptors"`
}

// Site names one host type to bind.
type Site struct {
	Package       string `toml:"package"`
	Type          string `toml:"type"`
	Output        string `toml:"output"`
	FreeFunctions bool   `toml:"free-functions"`
	Naming        string `toml:"naming"`
}

// Defaults
const (
	DefaultNaming = "snake"
	DefaultSuffix = "_bind.go"
)

// Load parses a bindgen.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path. Site packages are
// resolved relative to the file's directory.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return m, nil
}

// Parse validates and decodes configuration text. name is used in errors.
func Parse(data []byte, name string) (*Manifest, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	m.applyDefaults()
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Generate.Naming == "" {
		m.Generate.Naming = DefaultNaming
	}
	if m.Generate.Suffix == "" {
		m.Generate.Suffix = DefaultSuffix
	}
	for i := range m.Sites {
		s := &m.Sites[i]
		if s.Naming == "" {
			s.Naming = m.Generate.Naming
		}
		if s.Output == "" {
			s.Output = strings.ToLower(s.Type) + m.Generate.Suffix
		}
	}
}

// FindAndLoad walks up from startDir to find a bindgen.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ParseSite parses a "package:Type" command-line site using the
// manifest's defaults. A nil manifest uses the built-in defaults.
func (m *Manifest) ParseSite(arg string) (Site, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return Site{}, fmt.Errorf("site %q: want package:Type", arg)
	}
	gen := Generate{Naming: DefaultNaming, Suffix: DefaultSuffix}
	if m != nil {
		gen = m.Generate
	}
	s := Site{Package: arg[:i], Type: arg[i+1:], Naming: gen.Naming}
	s.Output = strings.ToLower(s.Type) + gen.Suffix
	return s, nil
}

// PackageDir returns the site's package directory relative to the manifest.
func (m *Manifest) PackageDir(s Site) string {
	if filepath.IsAbs(s.Package) || m == nil {
		return s.Package
	}
	return filepath.Join(m.Dir, s.Package)
}
