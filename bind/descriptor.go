package bind

import (
	"go/token"
	"go/types"
	"reflect"
)

// Receiver identifies an ambient context threaded into a trampoline call.
type Receiver uint8

const (
	SelfContext  Receiver = iota // owning instance, by pointer
	SelfCopy                     // owning instance, by value
	WorldContext                 // *vm.World
)

func (r Receiver) String() string {
	switch r {
	case SelfContext:
		return "self"
	case SelfCopy:
		return "self (copy)"
	case WorldContext:
		return "world"
	}
	return "unknown"
}

// IsSelf reports whether r refers to the owning instance.
func (r Receiver) IsSelf() bool {
	return r == SelfContext || r == SelfCopy
}

// ParamMode says how a dynamic argument reaches a declared parameter.
type ParamMode uint8

const (
	Direct  ParamMode = iota // declared as vm.Value, passed unchanged
	Convert                  // converted with vm.Convert, zero value on failure
)

func (m ParamMode) String() string {
	if m == Direct {
		return "direct"
	}
	return "convert"
}

// ReturnMode says how a trampoline treats the method's result.
type ReturnMode uint8

const (
	Plain    ReturnMode = iota // wrapped with vm.ValueOf
	Fallible                   // last result is error and is propagated
)

func (m ReturnMode) String() string {
	if m == Plain {
		return "plain"
	}
	return "fallible"
}

// Parameter is a classified value parameter.
type Parameter struct {
	Mode ParamMode `cbor:"1,keyasint"`
	Type string    `cbor:"2,keyasint"`

	GoType types.Type   `cbor:"-"`
	RType  reflect.Type `cbor:"-"`
}

// Function describes a native function binding.
type Function struct {
	Name      string      `cbor:"1,keyasint"` // script-visible symbol
	GoName    string      `cbor:"2,keyasint"`
	Method    bool        `cbor:"3,keyasint"` // Receivers[0] is the method receiver
	Receivers []Receiver  `cbor:"4,keyasint"`
	Params    []Parameter `cbor:"5,keyasint"`
	Variadic  bool        `cbor:"6,keyasint"`
	Spread    bool        `cbor:"7,keyasint"` // rest declared as ...vm.Value
	Return    ReturnMode  `cbor:"8,keyasint"`
	HasResult bool        `cbor:"9,keyasint"`

	Pos token.Position `cbor:"-"`
}

// Arity is the number of fixed script arguments.
func (f *Function) Arity() int {
	return len(f.Params)
}

// Property describes one accessor of a member.
type Property struct {
	Name      string     `cbor:"1,keyasint"` // Go identifier of the accessor
	Method    bool       `cbor:"2,keyasint"`
	Receivers []Receiver `cbor:"3,keyasint"`
	Entity    bool       `cbor:"4,keyasint"` // takes vm.Entity
	Slot      bool       `cbor:"5,keyasint"` // takes an int slot
	Value     *Parameter `cbor:"6,keyasint,omitempty"`

	Pos token.Position `cbor:"-"`
}

// Member pairs the getter and setter bound to one script-visible name.
type Member struct {
	Name   string    `cbor:"1,keyasint"`
	Getter *Property `cbor:"2,keyasint,omitempty"`
	Setter *Property `cbor:"3,keyasint,omitempty"`
}

// BindingSet is the validated output of Collect for one declaration site.
type BindingSet struct {
	Type      string     `cbor:"1,keyasint"`
	Functions []Function `cbor:"2,keyasint"`
	Members   []Member   `cbor:"3,keyasint"`
}

// Member returns the member named name, or nil.
func (s *BindingSet) Member(name string) *Member {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return &s.Members[i]
		}
	}
	return nil
}

// Function returns the function bound to name, or nil.
func (s *BindingSet) Function(name string) *Function {
	for i := range s.Functions {
		if s.Functions[i].Name == name {
			return &s.Functions[i]
		}
	}
	return nil
}
