package gowrap

import (
	"bytes"
	"fmt"
	"go/types"

	"github.com/chazu/bindc/bind"
	"github.com/dave/jennifer/jen"
)

// Header is the first line of every generated file.
const Header = "Code generated by bindgen. DO NOT EDIT."

// Names records the identifiers emitted for one site.
type Names struct {
	Register  string
	Functions map[string]string // symbol -> trampoline
	Getters   map[string]string // member -> trampoline
	Setters   map[string]string
}

// NamesFor assigns trampoline names for set in declaration order.
func NamesFor(typeName string, set *bind.BindingSet) Names {
	t := newTrampolines(typeName)
	names := Names{
		Register:  RegisterName(typeName),
		Functions: make(map[string]string),
		Getters:   make(map[string]string),
		Setters:   make(map[string]string),
	}
	for _, fn := range set.Functions {
		names.Functions[fn.Name] = t.name(RoleFunction, fn.Name)
	}
	for _, m := range set.Members {
		if m.Getter != nil {
			names.Getters[m.Name] = t.name(RoleGet, m.Name)
		}
		if m.Setter != nil {
			names.Setters[m.Name] = t.name(RoleSet, m.Name)
		}
	}
	return names
}

// all returns every trampoline name plus the registration routine.
func (n Names) all() []string {
	out := []string{n.Register}
	for _, m := range []map[string]string{n.Functions, n.Getters, n.Setters} {
		for _, name := range m {
			out = append(out, name)
		}
	}
	return out
}

// GenerateGoGlue emits the trampolines and registration routine for a
// site as Go source in the host's own package.
func GenerateGoGlue(site *SiteModel, set *bind.BindingSet) (string, error) {
	g := &goGen{
		site:  site,
		set:   set,
		names: NamesFor(site.Type, set),
	}

	f := jen.NewFilePathName(site.ImportPath, site.Name)
	f.HeaderComment(Header)
	f.ImportName(VMPath, "vm")

	for i := range set.Functions {
		g.function(f, &set.Functions[i])
		f.Line()
	}
	for i := range set.Members {
		m := &set.Members[i]
		if m.Getter != nil {
			g.getter(f, m)
			f.Line()
		}
		if m.Setter != nil {
			g.setter(f, m)
			f.Line()
		}
	}
	g.register(f)

	if g.err != nil {
		return "", g.err
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering %s bindings: %w", site.Type, err)
	}
	log.Debugf("generated %d functions, %d members for %s", len(set.Functions), len(set.Members), site.Type)
	return buf.String(), nil
}

type goGen struct {
	site  *SiteModel
	set   *bind.BindingSet
	names Names
	err   error
}

func (g *goGen) vm(name string) *jen.Statement {
	return jen.Qual(VMPath, name)
}

func (g *goGen) host() *jen.Statement {
	return jen.Qual(g.site.ImportPath, g.site.Type)
}

// context params shared by every trampoline shape.
func (g *goGen) contextParams() []jen.Code {
	return []jen.Code{
		jen.Id("self").Op("*").Add(g.host()),
		jen.Id("world").Op("*").Add(g.vm("World")),
	}
}

// callee returns the call target and the receivers still to be passed
// as arguments.
func (g *goGen) callee(goName string, method bool, receivers []bind.Receiver) (*jen.Statement, []bind.Receiver) {
	if method {
		return jen.Id("self").Dot(goName), receivers[1:]
	}
	return jen.Qual(g.site.ImportPath, goName), receivers
}

func receiverArgs(receivers []bind.Receiver) []jen.Code {
	var args []jen.Code
	for _, r := range receivers {
		switch r {
		case bind.SelfContext:
			args = append(args, jen.Id("self"))
		case bind.SelfCopy:
			args = append(args, jen.Op("*").Id("self"))
		case bind.WorldContext:
			args = append(args, jen.Id("world"))
		}
	}
	return args
}

// argument converts one dynamic value to a declared parameter.
func (g *goGen) argument(p *bind.Parameter, v *jen.Statement) jen.Code {
	if p.Mode == bind.Direct {
		return v
	}
	return g.vm("Convert").Types(g.typeCode(p.GoType)).Call(v)
}

func (g *goGen) function(f *jen.File, fn *bind.Function) {
	target, receivers := g.callee(fn.GoName, fn.Method, fn.Receivers)
	args := receiverArgs(receivers)
	for i := range fn.Params {
		args = append(args, g.argument(&fn.Params[i], jen.Id("args").Index(jen.Lit(i))))
	}
	if fn.Variadic {
		rest := jen.Id("args").Index(jen.Lit(fn.Arity()), jen.Empty())
		if fn.Spread {
			rest.Op("...")
		}
		args = append(args, rest)
	}
	call := target.Call(args...)

	var body []jen.Code
	switch {
	case fn.Return == bind.Plain && !fn.HasResult:
		body = append(body, call, jen.Return(g.vm("Nil"), jen.Nil()))
	case fn.Return == bind.Plain:
		body = append(body, jen.Return(g.vm("ValueOf").Call(call), jen.Nil()))
	case !fn.HasResult:
		body = append(body, jen.Return(g.vm("Nil"), call))
	default:
		body = append(body,
			jen.List(jen.Id("result"), jen.Err()).Op(":=").Add(call),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(g.vm("Nil"), jen.Err()),
			),
			jen.Return(g.vm("ValueOf").Call(jen.Id("result")), jen.Nil()),
		)
	}

	params := append(g.contextParams(), jen.Id("args").Index().Add(g.vm("Value")))
	f.Comment(fmt.Sprintf("%s binds %s as %q.", g.names.Functions[fn.Name], fn.GoName, fn.Name))
	f.Func().Id(g.names.Functions[fn.Name]).
		Params(params...).
		Parens(jen.List(g.vm("Value"), jen.Error())).
		Block(body...)
}

// propertyArgs returns the receiver, entity and slot arguments of an accessor.
func (g *goGen) propertyArgs(prop *bind.Property) (*jen.Statement, []jen.Code) {
	target, receivers := g.callee(prop.Name, prop.Method, prop.Receivers)
	args := receiverArgs(receivers)
	if prop.Entity {
		args = append(args, jen.Id("entity"))
	}
	if prop.Slot {
		args = append(args, jen.Id("slot"))
	}
	return target, args
}

func (g *goGen) getter(f *jen.File, m *bind.Member) {
	target, args := g.propertyArgs(m.Getter)
	params := append(g.contextParams(), jen.Id("entity").Add(g.vm("Entity")), jen.Id("slot").Int())
	f.Comment(fmt.Sprintf("%s binds %s as the getter of %q.", g.names.Getters[m.Name], m.Getter.Name, m.Name))
	f.Func().Id(g.names.Getters[m.Name]).
		Params(params...).
		Add(g.vm("Value")).
		Block(jen.Return(g.vm("ValueOf").Call(target.Call(args...))))
}

func (g *goGen) setter(f *jen.File, m *bind.Member) {
	target, args := g.propertyArgs(m.Setter)
	args = append(args, g.argument(m.Setter.Value, jen.Id("value")))
	params := append(g.contextParams(),
		jen.Id("entity").Add(g.vm("Entity")),
		jen.Id("slot").Int(),
		jen.Id("value").Add(g.vm("Value")),
	)
	f.Comment(fmt.Sprintf("%s binds %s as the setter of %q.", g.names.Setters[m.Name], m.Setter.Name, m.Name))
	f.Func().Id(g.names.Setters[m.Name]).
		Params(params...).
		Block(target.Call(args...))
}

func (g *goGen) register(f *jen.File) {
	var body []jen.Code
	for _, fn := range g.set.Functions {
		body = append(body, jen.Id("table").Dot("Insert").Call(
			g.vm("Intern").Call(jen.Lit(fn.Name)),
			g.vm("NativeFunction").Types(g.host()).Values(
				jen.Id("Fn").Op(":").Id(g.names.Functions[fn.Name]),
				jen.Id("Arity").Op(":").Lit(fn.Arity()),
				jen.Id("Variadic").Op(":").Lit(fn.Variadic),
			),
		))
	}
	for _, m := range g.set.Members {
		var fields []jen.Code
		if m.Getter != nil {
			fields = append(fields, jen.Id("Get").Op(":").Id(g.names.Getters[m.Name]))
		}
		if m.Setter != nil {
			fields = append(fields, jen.Id("Set").Op(":").Id(g.names.Setters[m.Name]))
		}
		body = append(body, jen.Id("table").Dot("Insert").Call(
			g.vm("Intern").Call(jen.Lit(m.Name)),
			g.vm("Member").Types(g.host()).Values(fields...),
		))
	}

	f.Comment(fmt.Sprintf("%s inserts the %s bindings into table.", g.names.Register, g.site.Type))
	f.Func().Id(g.names.Register).
		Params(jen.Id("table").Op("*").Add(g.vm("DispatchTable")).Types(g.host())).
		Block(body...)
}

// typeCode renders a go/types type with imports managed by jennifer.
func (g *goGen) typeCode(t types.Type) jen.Code {
	switch t := t.(type) {
	case *types.Basic:
		return jen.Id(t.Name())
	case *types.Alias:
		return g.namedCode(t.Obj(), t.TypeArgs())
	case *types.Named:
		return g.namedCode(t.Obj(), t.TypeArgs())
	case *types.Pointer:
		return jen.Op("*").Add(g.typeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(g.typeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(g.typeCode(t.Elem()))
	case *types.Map:
		return jen.Map(g.typeCode(t.Key())).Add(g.typeCode(t.Elem()))
	case *types.Chan:
		switch t.Dir() {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(g.typeCode(t.Elem()))
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(g.typeCode(t.Elem()))
		}
		return jen.Chan().Add(g.typeCode(t.Elem()))
	case *types.Signature:
		return jen.Func().Params(g.tupleCode(t.Params(), t.Variadic())...).Add(g.resultsCode(t.Results()))
	case *types.Interface:
		if t.Empty() {
			return jen.Interface()
		}
	case *types.Struct:
		if t.NumFields() == 0 {
			return jen.Struct()
		}
	}
	if g.err == nil {
		g.err = fmt.Errorf("%s: cannot render parameter type %s", g.site.Type, t)
	}
	return jen.Null()
}

func (g *goGen) namedCode(obj *types.TypeName, targs *types.TypeList) jen.Code {
	var s *jen.Statement
	if obj.Pkg() == nil {
		s = jen.Id(obj.Name())
	} else {
		s = jen.Qual(obj.Pkg().Path(), obj.Name())
	}
	if targs.Len() > 0 {
		codes := make([]jen.Code, targs.Len())
		for i := range codes {
			codes[i] = g.typeCode(targs.At(i))
		}
		s.Types(codes...)
	}
	return s
}

func (g *goGen) tupleCode(tuple *types.Tuple, variadic bool) []jen.Code {
	codes := make([]jen.Code, tuple.Len())
	for i := range codes {
		t := tuple.At(i).Type()
		if variadic && i == len(codes)-1 {
			codes[i] = jen.Op("...").Add(g.typeCode(t.(*types.Slice).Elem()))
			continue
		}
		codes[i] = g.typeCode(t)
	}
	return codes
}

func (g *goGen) resultsCode(results *types.Tuple) jen.Code {
	switch results.Len() {
	case 0:
		return jen.Null()
	case 1:
		return g.typeCode(results.At(0).Type())
	}
	return jen.Parens(jen.List(g.tupleCode(results, false)...))
}
