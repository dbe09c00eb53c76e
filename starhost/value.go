package starhost

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/chazu/bindc/vm"
)

// ToStarlark converts a dynamic value for use in a script. Entities come
// back detached: they carry their ID but no member access until a host
// adopts them.
func ToStarlark(v vm.Value) starlark.Value {
	switch v.Kind() {
	case vm.KindNil:
		return starlark.None
	case vm.KindBool:
		b, _ := v.AsBool()
		return starlark.Bool(b)
	case vm.KindInt:
		n, _ := v.AsInt()
		return starlark.MakeInt64(n)
	case vm.KindFloat:
		f, _ := v.AsFloat()
		return starlark.Float(f)
	case vm.KindString:
		s, _ := v.AsString()
		return starlark.String(s)
	case vm.KindEntity:
		e, _ := v.AsEntity()
		return &Entity{ID: e}
	case vm.KindHost:
		h, _ := v.AsHost()
		return &HostValue{Go: h}
	}
	return starlark.None
}

// FromStarlark converts a script value to a dynamic value.
func FromStarlark(v starlark.Value) (vm.Value, error) {
	switch x := v.(type) {
	case starlark.NoneType:
		return vm.Nil, nil
	case starlark.Bool:
		return vm.Bool(bool(x)), nil
	case starlark.Int:
		n, ok := x.Int64()
		if !ok {
			return vm.Nil, fmt.Errorf("int %s out of range", x)
		}
		return vm.Int(n), nil
	case starlark.Float:
		return vm.Float(float64(x)), nil
	case starlark.String:
		return vm.String(string(x)), nil
	case starlark.Bytes:
		return vm.String(string(x)), nil
	case *Entity:
		return vm.EntityValue(x.ID), nil
	case *HostValue:
		return vm.Host(x.Go), nil
	}
	return vm.Nil, fmt.Errorf("cannot pass %s to a native function", v.Type())
}

// HostValue is an opaque Go value handed to a script by a binding.
type HostValue struct {
	Go any
}

var _ starlark.Value = (*HostValue)(nil)

func (h *HostValue) String() string        { return fmt.Sprintf("host(%T)", h.Go) }
func (h *HostValue) Type() string          { return "host" }
func (h *HostValue) Freeze()               {}
func (h *HostValue) Truth() starlark.Bool  { return h.Go != nil }
func (h *HostValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: host") }

// Entity is a script reference to an instance in the world. Attributes
// read and write members of the owning dispatch table at slot 0.
type Entity struct {
	ID vm.Entity

	access memberAccess
}

// memberAccess is the dispatch table an entity reads its members through.
type memberAccess interface {
	get(name string, e vm.Entity, slot int) (vm.Value, bool, error)
	set(name string, e vm.Entity, slot int, v vm.Value) (bool, error)
	members() []string
}

var (
	_ starlark.HasSetField = (*Entity)(nil)
	_ starlark.Comparable  = (*Entity)(nil)
)

func (e *Entity) String() string        { return fmt.Sprintf("entity#%d", e.ID) }
func (e *Entity) Type() string          { return "entity" }
func (e *Entity) Freeze()               {}
func (e *Entity) Truth() starlark.Bool  { return true }
func (e *Entity) Hash() (uint32, error) { return uint32(e.ID), nil }

func (e *Entity) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	other := y.(*Entity)
	switch op {
	case syntax.EQL:
		return e.ID == other.ID, nil
	case syntax.NEQ:
		return e.ID != other.ID, nil
	}
	return false, fmt.Errorf("%s %s %s not implemented", e.Type(), op, y.Type())
}

func (e *Entity) Attr(name string) (starlark.Value, error) {
	if name == "id" {
		return starlark.MakeUint64(uint64(e.ID)), nil
	}
	if e.access == nil {
		return nil, nil
	}
	v, ok, err := e.access.get(name, e.ID, 0)
	if err != nil || !ok {
		return nil, err
	}
	return e.adopt(v), nil
}

func (e *Entity) AttrNames() []string {
	names := []string{"id"}
	if e.access != nil {
		names = append(names, e.access.members()...)
	}
	return names
}

func (e *Entity) SetField(name string, val starlark.Value) error {
	if e.access == nil {
		return starlark.NoSuchAttrError(fmt.Sprintf("detached %s has no member %s", e, name))
	}
	v, err := FromStarlark(val)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", e, name, err)
	}
	ok, err := e.access.set(name, e.ID, 0, v)
	if err != nil {
		return err
	}
	if !ok {
		return starlark.NoSuchAttrError(fmt.Sprintf("%s has no settable member %s", e, name))
	}
	return nil
}

// adopt converts v, attaching e's member access to any entity it holds.
func (e *Entity) adopt(v vm.Value) starlark.Value {
	sv := ToStarlark(v)
	if ent, ok := sv.(*Entity); ok {
		ent.access = e.access
	}
	return sv
}
