package gowrap

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"

	"github.com/chazu/bindc/bind"
	"github.com/tliron/commonlog"
	"golang.org/x/tools/go/packages"
)

var log = commonlog.GetLogger("bindc.gowrap")

const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedFiles | packages.NeedImports | packages.NeedDeps

// IntrospectSite loads the package named by opts and collects the
// annotated declarations of its host type.
func IntrospectSite(ctx context.Context, opts Options) (*SiteModel, error) {
	if opts.Type == "" {
		return nil, fmt.Errorf("no host type given for %s", opts.Package)
	}
	style, err := ParseNamingStyle(string(opts.Naming))
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode:    loadMode,
	}
	log.Debugf("loading %s for %s", opts.Package, opts.Type)
	pkg, vmPkg, err := load(cfg, opts.Package)
	if err != nil {
		return nil, err
	}
	if len(pkg.Errors) > 0 && opts.Output != "" {
		// A stale generated file can break the package. Retry without it,
		// tolerating host code that calls the routine it used to declare.
		cfg.Overlay, err = staleOutputOverlay(opts)
		if err != nil {
			return nil, err
		}
		if cfg.Overlay != nil {
			log.Infof("%s does not type-check; loading without %s", opts.Package, opts.Output)
			pkg, vmPkg, err = load(cfg, opts.Package)
			if err != nil {
				return nil, err
			}
			pkg.Errors = withoutGenerated(pkg.Errors, opts.Type)
		}
	}
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors)
	}
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return nil, fmt.Errorf("type information not available for %s", opts.Package)
	}

	named, err := hostType(pkg.Types, opts.Type)
	if err != nil {
		return nil, err
	}

	site := &SiteModel{
		ImportPath: pkg.PkgPath,
		Name:       pkg.Name,
		Type:       opts.Type,
		Fset:       pkg.Fset,
		Pkg:        pkg,
		VM:         vmPkg,
		Named:      named,
		Output:     opts.Output,
	}

	s := &scanner{site: site, style: style, free: opts.FreeFunctions}
	for _, file := range pkg.Syntax {
		s.file(file)
	}
	log.Debugf("%s.%s: %d declarations, %d diagnostics",
		site.ImportPath, site.Type, len(site.Declarations), len(site.Diagnostics))
	return site, nil
}

// load returns the host package named by pattern together with the
// runtime package.
func load(cfg *packages.Config, pattern string) (pkg, vmPkg *packages.Package, err error) {
	pkgs, err := packages.Load(cfg, pattern, VMPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", pattern, err)
	}
	for _, p := range pkgs {
		if p.PkgPath == VMPath {
			vmPkg = p
		}
		if pkg == nil && p.PkgPath != VMPath {
			pkg = p
		}
	}
	if pkg == nil {
		// The host package may be the runtime package itself.
		pkg = vmPkg
	}
	if pkg == nil {
		return nil, nil, fmt.Errorf("no packages found for %s", pattern)
	}
	return pkg, vmPkg, nil
}

// withoutGenerated drops the errors caused by host code referring to the
// registration routine of typeName while its generated file is hidden.
func withoutGenerated(errs []packages.Error, typeName string) []packages.Error {
	missing := "undefined: " + RegisterName(typeName)
	var out []packages.Error
	for _, e := range errs {
		if e.Kind == packages.TypeError && e.Msg == missing {
			continue
		}
		out = append(out, e)
	}
	return out
}

// staleOutputOverlay replaces an existing generated file with an empty
// file of the same package, so a stale copy cannot break type checking.
func staleOutputOverlay(opts Options) (map[string][]byte, error) {
	dir := opts.Package
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(opts.Dir, dir)
	}
	path := filepath.Join(dir, opts.Output)
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil {
		// Not our problem to fix; let the loader report it.
		return nil, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{abs: []byte("package " + f.Name.Name + "\n")}, nil
}

func hostType(pkg *types.Package, name string) (*types.Named, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("type %s not found in %s", name, pkg.Path())
	}
	tn, ok := obj.(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil, fmt.Errorf("%s.%s is not a defined type", pkg.Path(), name)
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not a named type", pkg.Path(), name)
	}
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s.%s is generic; bind an instantiation through a defined type instead", pkg.Path(), name)
	}
	if _, ok := named.Underlying().(*types.Interface); ok {
		return nil, fmt.Errorf("%s.%s is an interface", pkg.Path(), name)
	}
	return named, nil
}

// scanner walks a package's files for annotated declarations.
type scanner struct {
	site  *SiteModel
	style NamingStyle
	free  bool
}

func (s *scanner) report(d *bind.Diagnostic) {
	s.site.Diagnostics = append(s.site.Diagnostics, *d)
}

func (s *scanner) file(file *ast.File) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		ds := directives(s.site.Fset, fd.Doc)
		if len(ds) == 0 {
			continue
		}
		fn, ok := s.site.Pkg.TypesInfo.Defs[fd.Name].(*types.Func)
		if !ok {
			continue
		}
		if !s.belongs(fn, ds[0].pos) {
			continue
		}
		sig := s.signature(fn)
		for _, d := range ds {
			ann, diag := d.annotation(fn.Name(), s.style)
			if diag != nil {
				s.report(diag)
				continue
			}
			s.site.Declarations = append(s.site.Declarations, bind.Declaration{
				Annotation: ann,
				Signature:  sig,
			})
		}
	}
}

// belongs reports whether fn is part of the site. Declarations owned by
// another type of the package are left to that type's site.
func (s *scanner) belongs(fn *types.Func, pos token.Position) bool {
	sig := fn.Type().(*types.Signature)
	if recv := sig.Recv(); recv != nil {
		if !s.isHost(recv.Type()) {
			log.Debugf("skipping %s: receiver %s", fn.Name(), types.TypeString(recv.Type(), s.qualifier()))
		}
		return s.isHost(recv.Type())
	}
	if sig.TypeParams().Len() > 0 {
		s.report(&bind.Diagnostic{Pos: pos, Message: fmt.Sprintf("generic function %s cannot be bound", fn.Name())})
		return false
	}
	for i := 0; i < sig.Params().Len(); i++ {
		if s.isHost(sig.Params().At(i).Type()) {
			return true
		}
	}
	other := s.localType(sig.Params())
	switch {
	case other != nil && s.free:
		s.report(&bind.Diagnostic{Pos: pos, Message: fmt.Sprintf(
			"%s takes %s but not %s; it may belong to either site",
			fn.Name(), other.Obj().Name(), s.site.Type)})
		return false
	case other != nil:
		log.Debugf("skipping %s: takes %s", fn.Name(), other.Obj().Name())
		return false
	case s.free:
		return true
	}
	s.report(&bind.Diagnostic{Pos: pos, Message: fmt.Sprintf(
		"%s does not take %s; enable free functions to bind it", fn.Name(), s.site.Type)})
	return false
}

// localType returns the first parameter type, or pointer to one, that is
// a concrete named type declared in the site's package.
func (s *scanner) localType(params *types.Tuple) *types.Named {
	for i := 0; i < params.Len(); i++ {
		t := params.At(i).Type()
		if p, ok := t.(*types.Pointer); ok {
			t = p.Elem()
		}
		named, ok := types.Unalias(t).(*types.Named)
		if !ok || named.Obj().Pkg() != s.site.Pkg.Types {
			continue
		}
		if _, ok := named.Underlying().(*types.Interface); ok {
			continue
		}
		return named
	}
	return nil
}

func (s *scanner) isHost(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	return types.Identical(t, s.site.Named)
}

func (s *scanner) qualifier() types.Qualifier {
	return qualifier(s.site.Pkg.Types)
}

func (s *scanner) signature(fn *types.Func) bind.Signature {
	sig := fn.Type().(*types.Signature)
	fset := s.site.Fset
	out := bind.Signature{
		Name: fn.Name(),
		Pos:  fset.Position(fn.Pos()),
	}
	if recv := sig.Recv(); recv != nil {
		p := s.param(recv, false)
		out.Recv = &p
	}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		variadic := sig.Variadic() && i == params.Len()-1
		out.Params = append(out.Params, s.param(params.At(i), variadic))
	}
	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		r := results.At(i)
		out.Results = append(out.Results, bind.Result{
			Type:    types.TypeString(r.Type(), s.qualifier()),
			IsError: isErrorType(r.Type()),
			GoType:  r.Type(),
		})
	}
	return out
}

func (s *scanner) param(v *types.Var, variadic bool) bind.Param {
	t := v.Type()
	typeStr := types.TypeString(t, s.qualifier())
	if variadic {
		typeStr = "..." + types.TypeString(t.(*types.Slice).Elem(), s.qualifier())
	}
	return bind.Param{
		Name:     v.Name(),
		Kind:     s.kind(t, variadic),
		Type:     typeStr,
		Variadic: variadic,
		Pos:      s.site.Fset.Position(v.Pos()),
		GoType:   t,
	}
}

// kind classifies a parameter type. Runtime types are recognised by
// package path and name.
func (s *scanner) kind(t types.Type, variadic bool) bind.ParamKind {
	if variadic {
		if isVMType(t.(*types.Slice).Elem(), "Value") {
			return bind.KindValues
		}
		return bind.KindOther
	}
	if p, ok := t.(*types.Pointer); ok {
		switch {
		case types.Identical(p.Elem(), s.site.Named):
			return bind.KindSelf
		case isVMType(p.Elem(), "World"):
			return bind.KindWorld
		}
		return bind.KindOther
	}
	switch {
	case types.Identical(t, s.site.Named):
		return bind.KindSelfCopy
	case isVMType(t, "Value"):
		return bind.KindValue
	case isVMType(t, "Entity"):
		return bind.KindEntity
	case types.Identical(t, types.Typ[types.Int]):
		return bind.KindSlot
	}
	if sl, ok := t.(*types.Slice); ok && isVMType(sl.Elem(), "Value") {
		return bind.KindValues
	}
	return bind.KindOther
}

func isVMType(t types.Type, name string) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == VMPath && obj.Name() == name
}

var errorType = types.Universe.Lookup("error").Type()

func isErrorType(t types.Type) bool {
	return types.Identical(t, errorType)
}

func qualifier(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if other == pkg {
			return ""
		}
		return other.Name()
	}
}
