// Package starhost runs Starlark scripts against a dispatch table.
//
// Every native function in the table becomes a builtin of the same name.
// Entities returned to the script expose the table's members as
// attributes:
//
//	e = spawn("bullet")
//	e.health = 3
//	say("health is", e.health)
//
// Indexed fields are reached with getslot(e, name, slot) and
// setslot(e, name, slot, value).
package starhost

import (
	"errors"
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/chazu/bindc/vm"
)

// host binds one table to the self and world its trampolines receive.
type host[S any] struct {
	table *vm.DispatchTable[S]
	self  *S
	world *vm.World
}

// Globals returns the predeclared names a script sees: one builtin per
// native function plus entity, getslot and setslot.
func Globals[S any](table *vm.DispatchTable[S], self *S, world *vm.World) starlark.StringDict {
	h := &host[S]{table: table, self: self, world: world}
	globals := starlark.StringDict{
		"entity":  starlark.NewBuiltin("entity", h.entity),
		"getslot": starlark.NewBuiltin("getslot", h.getslot),
		"setslot": starlark.NewBuiltin("setslot", h.setslot),
	}
	for _, sym := range table.Symbols() {
		fn, err := table.Function(sym)
		if err != nil {
			continue
		}
		name := sym.String()
		globals[name] = starlark.NewBuiltin(name, h.native(sym, fn))
	}
	return globals
}

// FileOptions are the dialect options scripts are compiled with.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Exec runs a script against table and returns its global variables.
// src is a filename's contents as accepted by starlark.ExecFileOptions.
func Exec[S any](filename string, src any, table *vm.DispatchTable[S], self *S, world *vm.World) (starlark.StringDict, error) {
	thread := &starlark.Thread{Name: filename}
	return starlark.ExecFileOptions(FileOptions, thread, filename, src, Globals(table, self, world))
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func (h *host[S]) native(sym vm.Symbol, fn vm.NativeFunction[S]) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword argument %s", b.Name(), kwargs[0][0])
		}
		vals := make([]vm.Value, len(args))
		for i, a := range args {
			v, err := FromStarlark(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", b.Name(), i+1, err)
			}
			vals[i] = v
		}
		result, err := h.table.Call(sym, h.self, h.world, vals)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return h.value(result), nil
	}
}

// value converts a result, attaching member access to entities.
func (h *host[S]) value(v vm.Value) starlark.Value {
	sv := ToStarlark(v)
	if e, ok := sv.(*Entity); ok {
		e.access = h
	}
	return sv
}

func (h *host[S]) entity(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var id starlark.Int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &id); err != nil {
		return nil, err
	}
	if id.Sign() < 0 {
		return nil, fmt.Errorf("%s: negative entity %s", b.Name(), id)
	}
	e, ok := entityID(id)
	if !ok {
		return nil, fmt.Errorf("%s: entity %s out of range", b.Name(), id)
	}
	return &Entity{ID: e, access: h}, nil
}

func (h *host[S]) getslot(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		ent  starlark.Value
		name string
		slot int
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &ent, &name, &slot); err != nil {
		return nil, err
	}
	e, err := entityArg(b, ent)
	if err != nil {
		return nil, err
	}
	v, ok, err := h.get(name, e, slot)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: no member %s", b.Name(), name)
	}
	return h.value(v), nil
}

func (h *host[S]) setslot(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		ent, val starlark.Value
		name     string
		slot     int
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 4, &ent, &name, &slot, &val); err != nil {
		return nil, err
	}
	e, err := entityArg(b, ent)
	if err != nil {
		return nil, err
	}
	v, err := FromStarlark(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	ok, err := h.set(name, e, slot, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: no member %s", b.Name(), name)
	}
	return starlark.None, nil
}

func entityArg(b *starlark.Builtin, v starlark.Value) (vm.Entity, error) {
	switch x := v.(type) {
	case *Entity:
		return x.ID, nil
	case starlark.Int:
		if e, ok := entityID(x); ok {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%s: want entity, got %s", b.Name(), v.Type())
}

// entityID reports whether n fits an entity ID.
func entityID(n starlark.Int) (vm.Entity, bool) {
	u, ok := n.Uint64()
	if !ok || u > uint64(^vm.Entity(0)) {
		return 0, false
	}
	return vm.Entity(u), true
}

// get reads a member; ok is false when name is not a member of the table.
func (h *host[S]) get(name string, e vm.Entity, slot int) (vm.Value, bool, error) {
	sym, ok := vm.LookupSymbol(name)
	if !ok {
		return vm.Nil, false, nil
	}
	v, err := h.table.Get(sym, h.self, h.world, e, slot)
	if errors.Is(err, vm.ErrUnknownSymbol) || errors.Is(err, vm.ErrNotMember) {
		return vm.Nil, false, nil
	}
	return v, err == nil, err
}

func (h *host[S]) set(name string, e vm.Entity, slot int, v vm.Value) (bool, error) {
	sym, ok := vm.LookupSymbol(name)
	if !ok {
		return false, nil
	}
	err := h.table.Set(sym, h.self, h.world, e, slot, v)
	if errors.Is(err, vm.ErrUnknownSymbol) || errors.Is(err, vm.ErrNotMember) {
		return false, nil
	}
	return err == nil, err
}

func (h *host[S]) members() []string {
	var names []string
	for _, sym := range h.table.Symbols() {
		if m, err := h.table.Member(sym); err == nil && m.Get != nil {
			names = append(names, sym.String())
		}
	}
	sort.Strings(names)
	return names
}
