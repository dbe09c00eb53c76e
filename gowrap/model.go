// Package gowrap loads annotated host types from Go source and generates
// their binding glue.
package gowrap

import (
	"go/token"
	"go/types"
	"path/filepath"

	"github.com/chazu/bindc/bind"
	"golang.org/x/tools/go/packages"
)

// VMPath is the import path of the runtime package generated code targets.
const VMPath = "github.com/chazu/bindc/vm"

// Options selects one declaration site.
type Options struct {
	Dir     string // working directory for package loading
	Package string // package pattern, e.g. "./examples/sprite"
	Type    string // host type name
	Output  string // generated file name; a stale copy is ignored while loading

	// FreeFunctions admits annotated package-level functions that do not
	// take the host type.
	FreeFunctions bool
	Naming        NamingStyle
}

// SiteModel is one host type together with its annotated declarations.
type SiteModel struct {
	ImportPath string
	Name       string // package name
	Type       string

	Declarations []bind.Declaration
	Diagnostics  bind.Diagnostics // directive problems found while loading

	Fset   *token.FileSet
	Pkg    *packages.Package
	VM     *packages.Package
	Named  *types.Named
	Output string
}

// Collect classifies the site's declarations. Directive problems found
// while loading are reported together with classification problems.
func (s *SiteModel) Collect() (*bind.BindingSet, error) {
	set, err := bind.Collect(s.Type, s.Declarations)
	if len(s.Diagnostics) == 0 {
		return set, err
	}
	all := append(bind.Diagnostics(nil), s.Diagnostics...)
	if ds, ok := err.(bind.Diagnostics); ok {
		all = append(all, ds...)
	} else if err != nil {
		return nil, err
	}
	return nil, all
}

// OutputPath is where the generated file for the site belongs: next to
// the host package's own sources.
func (s *SiteModel) OutputPath() string {
	if s.Pkg == nil || len(s.Pkg.GoFiles) == 0 {
		return s.Output
	}
	return filepath.Join(filepath.Dir(s.Pkg.GoFiles[0]), s.Output)
}
