package bind

import "go/token"

// AnnotationKind says how a declaration is exposed.
type AnnotationKind uint8

const (
	AnnotateFunction AnnotationKind = iota
	AnnotateGetter
	AnnotateSetter
)

func (k AnnotationKind) String() string {
	switch k {
	case AnnotateFunction:
		return "function"
	case AnnotateGetter:
		return "get"
	case AnnotateSetter:
		return "set"
	}
	return "unknown"
}

// Annotation marks a declaration for binding. Name is the script-visible
// symbol: the function name, or the member a getter/setter belongs to.
type Annotation struct {
	Kind AnnotationKind
	Name string
	Pos  token.Position
}

// Declaration is one annotated method or function of a site.
type Declaration struct {
	Annotation Annotation
	Signature  Signature
}

// collector accumulates bindings and diagnostics for one site.
type collector struct {
	set         *BindingSet
	members     map[string]int // member name -> index in set.Members
	symbols     map[string]token.Position
	diagnostics Diagnostics
}

// Collect classifies every declaration of a site and validates the result.
//
// All problems are reported together: the returned error is a
// Diagnostics holding every classification failure, duplicate accessor
// and symbol collision found, in declaration order. A site with any
// diagnostic yields no BindingSet.
func Collect(typeName string, decls []Declaration) (*BindingSet, error) {
	c := &collector{
		set:     &BindingSet{Type: typeName},
		members: make(map[string]int),
		symbols: make(map[string]token.Position),
	}

	for i := range decls {
		c.visit(&decls[i])
	}

	if len(c.diagnostics) > 0 {
		return nil, c.diagnostics
	}
	return c.set, nil
}

func (c *collector) report(d *Diagnostic) {
	c.diagnostics = append(c.diagnostics, *d)
}

// claim records name as bound, reporting a collision with an earlier
// binding of the same symbol.
func (c *collector) claim(name string, pos token.Position) bool {
	if prev, ok := c.symbols[name]; ok {
		if prev.IsValid() {
			c.report(diagnosticf(pos, "symbol %q is already bound at %s", name, prev))
		} else {
			c.report(diagnosticf(pos, "symbol %q is already bound", name))
		}
		return false
	}
	c.symbols[name] = pos
	return true
}

func (c *collector) visit(decl *Declaration) {
	ann := decl.Annotation
	switch ann.Kind {
	case AnnotateFunction:
		if ann.Name == "" {
			c.report(diagnosticf(ann.Pos, "missing function name for %s", decl.Signature.Name))
			return
		}
		fn, d := ClassifyFunction(ann.Name, &decl.Signature)
		if d != nil {
			c.report(d)
			return
		}
		if !c.claim(ann.Name, ann.Pos) {
			return
		}
		c.set.Functions = append(c.set.Functions, *fn)

	case AnnotateGetter, AnnotateSetter:
		if ann.Name == "" {
			c.report(diagnosticf(ann.Pos, "missing member name for %s", decl.Signature.Name))
			return
		}
		var (
			prop *Property
			d    *Diagnostic
		)
		if ann.Kind == AnnotateGetter {
			prop, d = ClassifyGetter(&decl.Signature)
		} else {
			prop, d = ClassifySetter(&decl.Signature)
		}
		if d != nil {
			c.report(d)
			return
		}

		m := c.member(ann)
		if m == nil {
			return
		}
		if ann.Kind == AnnotateGetter {
			if m.Getter != nil {
				c.report(diagnosticf(ann.Pos, "getter is defined multiple times for %q", ann.Name))
				return
			}
			m.Getter = prop
		} else {
			if m.Setter != nil {
				c.report(diagnosticf(ann.Pos, "setter is defined multiple times for %q", ann.Name))
				return
			}
			m.Setter = prop
		}

	default:
		c.report(diagnosticf(ann.Pos, "unknown annotation kind %d", ann.Kind))
	}
}

// member returns the member entry for ann.Name, creating it on first use.
func (c *collector) member(ann Annotation) *Member {
	if i, ok := c.members[ann.Name]; ok {
		return &c.set.Members[i]
	}
	if !c.claim(ann.Name, ann.Pos) {
		return nil
	}
	c.members[ann.Name] = len(c.set.Members)
	c.set.Members = append(c.set.Members, Member{Name: ann.Name})
	return &c.set.Members[len(c.set.Members)-1]
}
