package bind

import (
	"go/token"
	"reflect"

	"github.com/chazu/bindc/vm"
)

// Builder assembles bindings for host type S from Go function values at
// run time. Methods are passed as method expressions:
//
//	b := bind.NewBuilder[Sprite]()
//	b.Function("move", (*Sprite).Move)
//	b.Getter("x", (*Sprite).X)
//	b.Setter("x", (*Sprite).SetX)
//	bindings, err := b.Build()
//
// Build runs the same classifier and collector as the source generator.
type Builder[S any] struct {
	self        reflect.Type
	decls       []Declaration
	impls       Impls
	diagnostics Diagnostics
}

// NewBuilder returns an empty Builder for S.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		self: reflect.TypeFor[S](),
		impls: Impls{
			Functions: make(map[string]reflect.Value),
			Getters:   make(map[string]reflect.Value),
			Setters:   make(map[string]reflect.Value),
		},
	}
}

// Function binds fn as a native function under name.
func (b *Builder[S]) Function(name string, fn any) *Builder[S] {
	if v, ok := b.add(AnnotateFunction, name, fn); ok {
		if _, dup := b.impls.Functions[name]; !dup {
			b.impls.Functions[name] = v
		}
	}
	return b
}

// Getter binds fn as the getter of member.
func (b *Builder[S]) Getter(member string, fn any) *Builder[S] {
	if v, ok := b.add(AnnotateGetter, member, fn); ok {
		if _, dup := b.impls.Getters[member]; !dup {
			b.impls.Getters[member] = v
		}
	}
	return b
}

// Setter binds fn as the setter of member.
func (b *Builder[S]) Setter(member string, fn any) *Builder[S] {
	if v, ok := b.add(AnnotateSetter, member, fn); ok {
		if _, dup := b.impls.Setters[member]; !dup {
			b.impls.Setters[member] = v
		}
	}
	return b
}

func (b *Builder[S]) add(kind AnnotationKind, name string, fn any) (reflect.Value, bool) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		b.diagnostics = append(b.diagnostics, *diagnosticf(token.Position{}, "%s %q: %T is not a function", kind, name, fn))
		return reflect.Value{}, false
	}
	goName, pos := funcInfo(v)
	b.decls = append(b.decls, Declaration{
		Annotation: Annotation{Kind: kind, Name: name, Pos: pos},
		Signature:  ReflectSignature(goName, v.Type(), b.self, pos),
	})
	return v, true
}

// Build classifies and compiles everything added so far.
func (b *Builder[S]) Build() (*Bindings[S], error) {
	set, err := Collect(b.self.Name(), b.decls)
	if err != nil {
		if ds, ok := err.(Diagnostics); ok {
			return nil, append(b.diagnostics[:len(b.diagnostics):len(b.diagnostics)], ds...)
		}
		return nil, err
	}
	if len(b.diagnostics) > 0 {
		return nil, b.diagnostics
	}
	return Compile[S](set, b.impls)
}

// MustRegister builds the bindings and inserts them into table, panicking
// on any diagnostic. Intended for package initialization.
func (b *Builder[S]) MustRegister(table *vm.DispatchTable[S]) *Bindings[S] {
	bindings, err := b.Build()
	if err != nil {
		panic(err)
	}
	bindings.Register(table)
	return bindings
}
