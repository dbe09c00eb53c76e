package gowrap

// In-memory validation of generated glue using go/parser and go/types.

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chazu/bindc/bind"
	"golang.org/x/tools/go/packages"
)

// ValidationError represents a problem in generated source with position info
type ValidationError struct {
	Line     int
	Column   int
	Function string // enclosing function, or "<package>"
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// CodeValidator checks generated glue for one site.
type CodeValidator struct {
	filename string
	expected []string
}

// NewCodeValidator creates a validator expecting the declarations that
// GenerateGoGlue emits for set. filename is used in positions and names
// the file to leave out of the host package when type-checking.
func NewCodeValidator(filename, typeName string, set *bind.BindingSet) *CodeValidator {
	expected := NamesFor(typeName, set).all()
	sort.Strings(expected)
	return &CodeValidator{filename: filename, expected: expected}
}

// Validate parses source and checks that the registration routine and
// every trampoline are declared.
func (cv *CodeValidator) Validate(source string) []ValidationError {
	fset := token.NewFileSet()
	file, errs := cv.parse(fset, source)
	if errs != nil {
		return errs
	}
	return cv.checkDeclared(fset, file)
}

// ValidatePackage additionally type-checks source together with the host
// package's own files, using the dependency graph already loaded for site.
func (cv *CodeValidator) ValidatePackage(source string, site *SiteModel) []ValidationError {
	file, errs := cv.parse(site.Fset, source)
	if errs != nil {
		return errs
	}
	if errs := cv.checkDeclared(site.Fset, file); errs != nil {
		return errs
	}

	files := []*ast.File{file}
	for _, f := range site.Pkg.Syntax {
		if filepath.Base(site.Fset.Position(f.Package).Filename) == filepath.Base(cv.filename) {
			continue
		}
		files = append(files, f)
	}

	funcMap := buildFunctionMap(site.Fset, file)
	var typeErrors []ValidationError
	conf := types.Config{
		Importer: packageImporter(site),
		Error: func(err error) {
			typeErr, ok := err.(types.Error)
			if !ok {
				return
			}
			pos := site.Fset.Position(typeErr.Pos)
			fn := "<package>"
			if pos.Filename == cv.filename {
				if name, ok := funcMap[pos.Line]; ok {
					fn = name
				}
			}
			typeErrors = append(typeErrors, ValidationError{
				Line:     pos.Line,
				Column:   pos.Column,
				Function: fn,
				Message:  typeErr.Msg,
			})
		},
	}
	_, _ = conf.Check(site.ImportPath, site.Fset, files, nil)
	return typeErrors
}

func (cv *CodeValidator) parse(fset *token.FileSet, source string) (*ast.File, []ValidationError) {
	file, err := parser.ParseFile(fset, cv.filename, source, parser.AllErrors|parser.ParseComments)
	if err != nil {
		return nil, []ValidationError{{Line: 1, Column: 1, Function: "<package>", Message: err.Error()}}
	}
	return file, nil
}

func (cv *CodeValidator) checkDeclared(fset *token.FileSet, file *ast.File) []ValidationError {
	declared := make(map[string]bool)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
			declared[fn.Name.Name] = true
		}
	}
	var errs []ValidationError
	for _, name := range cv.expected {
		if !declared[name] {
			errs = append(errs, ValidationError{
				Line:     1,
				Column:   1,
				Function: "<package>",
				Message:  "missing declaration of " + name,
			})
		}
	}
	if len(file.Comments) == 0 || !strings.Contains(file.Comments[0].Text(), Header) {
		pos := fset.Position(file.Package)
		errs = append(errs, ValidationError{
			Line:     pos.Line,
			Column:   pos.Column,
			Function: "<package>",
			Message:  "missing generated-code header",
		})
	}
	return errs
}

func buildFunctionMap(fset *token.FileSet, file *ast.File) map[int]string {
	funcMap := make(map[int]string)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		start, end := fset.Position(fn.Pos()), fset.Position(fn.End())
		for line := start.Line; line <= end.Line; line++ {
			funcMap[line] = fn.Name.Name
		}
	}
	return funcMap
}

// packageImporter resolves imports from the packages loaded for site.
type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func packageImporter(site *SiteModel) types.Importer {
	return importerFunc(func(path string) (*types.Package, error) {
		if path == VMPath && site.VM != nil {
			return site.VM.Types, nil
		}
		if imp, ok := site.Pkg.Imports[path]; ok && imp.Types != nil {
			return imp.Types, nil
		}
		var found *packages.Package
		packages.Visit([]*packages.Package{site.Pkg}, func(p *packages.Package) bool {
			if p.PkgPath == path {
				found = p
			}
			return found == nil
		}, nil)
		if found == nil || found.Types == nil {
			return nil, fmt.Errorf("package %s not loaded", path)
		}
		return found.Types, nil
	})
}

// FormatValidationErrors returns a human-readable error report
func FormatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, err := range errors {
		sb.WriteString("  ")
		if err.Function != "" && err.Function != "<package>" {
			sb.WriteString(err.Function)
			sb.WriteString(": ")
		}
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}
