package bind

import (
	"fmt"
	"reflect"

	"github.com/chazu/bindc/vm"
)

// Impls supplies the Go function behind each descriptor of a BindingSet,
// keyed by symbol (functions) or member name (accessors).
type Impls struct {
	Functions map[string]reflect.Value
	Getters   map[string]reflect.Value
	Setters   map[string]reflect.Value
}

// Bindings is a compiled BindingSet ready for registration.
type Bindings[S any] struct {
	Set *BindingSet

	functions []vm.NativeFunction[S] // parallel to Set.Functions
	members   []vm.Member[S]         // parallel to Set.Members
}

// Register populates table with one entry per function and per member.
func (b *Bindings[S]) Register(table *vm.DispatchTable[S]) {
	for i := range b.Set.Functions {
		table.Insert(vm.Intern(b.Set.Functions[i].Name), b.functions[i])
	}
	for i := range b.Set.Members {
		table.Insert(vm.Intern(b.Set.Members[i].Name), b.members[i])
	}
}

// Compile builds reflection-backed trampolines for every binding in set.
// Descriptors must carry runtime types, i.e. come from ReflectSignature.
func Compile[S any](set *BindingSet, impls Impls) (*Bindings[S], error) {
	b := &Bindings[S]{Set: set}
	var diagnostics Diagnostics

	for i := range set.Functions {
		fn := &set.Functions[i]
		impl, ok := impls.Functions[fn.Name]
		if !ok {
			diagnostics = append(diagnostics, *diagnosticf(fn.Pos, "no implementation for function %q", fn.Name))
			continue
		}
		if d := checkRuntimeTypes(fn.Params, fn.Name); d != nil {
			diagnostics = append(diagnostics, *d)
			continue
		}
		b.functions = append(b.functions, vm.NativeFunction[S]{
			Fn:       compileFunction[S](fn, impl),
			Arity:    fn.Arity(),
			Variadic: fn.Variadic,
		})
	}

	for i := range set.Members {
		m := &set.Members[i]
		var entry vm.Member[S]
		if m.Getter != nil {
			impl, ok := impls.Getters[m.Name]
			if !ok {
				diagnostics = append(diagnostics, *diagnosticf(m.Getter.Pos, "no implementation for getter %q", m.Name))
			} else {
				entry.Get = compileGetter[S](m.Getter, impl)
			}
		}
		if m.Setter != nil {
			impl, ok := impls.Setters[m.Name]
			switch {
			case !ok:
				diagnostics = append(diagnostics, *diagnosticf(m.Setter.Pos, "no implementation for setter %q", m.Name))
			case m.Setter.Value.Mode == Convert && m.Setter.Value.RType == nil:
				diagnostics = append(diagnostics, *diagnosticf(m.Setter.Pos, "setter %q has no runtime value type", m.Name))
			default:
				entry.Set = compileSetter[S](m.Setter, impl)
			}
		}
		b.members = append(b.members, entry)
	}

	if len(diagnostics) > 0 {
		return nil, diagnostics
	}
	return b, nil
}

func checkRuntimeTypes(params []Parameter, name string) *Diagnostic {
	for i, p := range params {
		if p.Mode == Convert && p.RType == nil {
			return &Diagnostic{Message: fmt.Sprintf("%s: parameter %d has no runtime type", name, i+1)}
		}
	}
	return nil
}

// appendReceivers threads the ambient contexts in declared order.
func appendReceivers[S any](in []reflect.Value, receivers []Receiver, self *S, world *vm.World) []reflect.Value {
	for _, r := range receivers {
		switch r {
		case SelfContext:
			in = append(in, reflect.ValueOf(self))
		case SelfCopy:
			in = append(in, reflect.ValueOf(*self))
		case WorldContext:
			in = append(in, reflect.ValueOf(world))
		}
	}
	return in
}

func argument(p *Parameter, v vm.Value) reflect.Value {
	if p.Mode == Direct {
		return reflect.ValueOf(v)
	}
	return vm.ConvertTo(v, p.RType)
}

func compileFunction[S any](fn *Function, impl reflect.Value) vm.Function[S] {
	arity := fn.Arity()
	return func(self *S, world *vm.World, args []vm.Value) (vm.Value, error) {
		in := make([]reflect.Value, 0, len(fn.Receivers)+arity+1)
		in = appendReceivers(in, fn.Receivers, self, world)
		for i := range fn.Params {
			in = append(in, argument(&fn.Params[i], args[i]))
		}

		var out []reflect.Value
		switch {
		case fn.Variadic && fn.Spread:
			in = append(in, reflect.ValueOf(args[arity:]))
			out = impl.CallSlice(in)
		case fn.Variadic:
			in = append(in, reflect.ValueOf(args[arity:]))
			out = impl.Call(in)
		default:
			out = impl.Call(in)
		}

		if fn.Return == Fallible {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return vm.Nil, errVal.Interface().(error)
			}
		}
		if fn.HasResult {
			return vm.ValueOf(out[0].Interface()), nil
		}
		return vm.Nil, nil
	}
}

func compileGetter[S any](prop *Property, impl reflect.Value) vm.Getter[S] {
	return func(self *S, world *vm.World, entity vm.Entity, slot int) vm.Value {
		in := make([]reflect.Value, 0, len(prop.Receivers)+2)
		in = appendReceivers(in, prop.Receivers, self, world)
		if prop.Entity {
			in = append(in, reflect.ValueOf(entity))
		}
		if prop.Slot {
			in = append(in, reflect.ValueOf(slot))
		}
		return vm.ValueOf(impl.Call(in)[0].Interface())
	}
}

func compileSetter[S any](prop *Property, impl reflect.Value) vm.Setter[S] {
	return func(self *S, world *vm.World, entity vm.Entity, slot int, value vm.Value) {
		in := make([]reflect.Value, 0, len(prop.Receivers)+3)
		in = appendReceivers(in, prop.Receivers, self, world)
		if prop.Entity {
			in = append(in, reflect.ValueOf(entity))
		}
		if prop.Slot {
			in = append(in, reflect.ValueOf(slot))
		}
		in = append(in, argument(prop.Value, value))
		impl.Call(in)
	}
}
