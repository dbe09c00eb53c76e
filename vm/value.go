package vm

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the dynamic type carried by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindEntity
	KindHost
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindEntity: "entity",
	KindHost:   "host",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the script-visible dynamic value.
//
// Scalars are stored inline: bool, int and entity share the integer
// payload, float uses its IEEE 754 bits in the same slot. Strings and
// wrapped host values live in ref. The zero Value is Nil.
type Value struct {
	kind Kind
	bits uint64
	ref  any
}

// Nil is the absent value. Trampolines of bindings with no result return it.
var Nil = Value{}

// Pre-defined booleans
var (
	True  = Value{kind: KindBool, bits: 1}
	False = Value{kind: KindBool}
)

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Int creates an integer value.
func Int(n int64) Value {
	return Value{kind: KindInt, bits: uint64(n)}
}

// Float creates a float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, bits: math.Float64bits(f)}
}

// Bool returns True or False.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, ref: s}
}

// EntityValue wraps an entity reference.
func EntityValue(e Entity) Value {
	return Value{kind: KindEntity, bits: uint64(e)}
}

// Host wraps an arbitrary Go value. A nil host value is Nil.
func Host(v any) Value {
	if v == nil {
		return Nil
	}
	return Value{kind: KindHost, ref: v}
}

// ---------------------------------------------------------------------------
// Type checking and accessors
// ---------------------------------------------------------------------------

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil returns true if v is Nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// IsNumber returns true for int and float values.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsBool returns the boolean payload, or false if v is not a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.bits != 0, true
}

// AsInt returns the integer payload. Floats are truncated toward zero.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return int64(v.bits), true
	case KindFloat:
		f := math.Float64frombits(v.bits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// AsFloat returns the numeric payload as a float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return math.Float64frombits(v.bits), true
	case KindInt:
		return float64(int64(v.bits)), true
	}
	return 0, false
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.ref.(string), true
}

// AsEntity returns the entity payload.
func (v Value) AsEntity() (Entity, bool) {
	if v.kind != KindEntity {
		return 0, false
	}
	return Entity(v.bits), true
}

// AsHost returns the wrapped Go value.
func (v Value) AsHost() (any, bool) {
	if v.kind != KindHost {
		return nil, false
	}
	return v.ref, true
}

// Equal reports whether two values have the same kind and payload.
// Host values compare with ==; incomparable host values are never equal.
func (v Value) Equal(o Value) (eq bool) {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.ref.(string) == o.ref.(string)
	case KindHost:
		defer func() {
			if recover() != nil {
				eq = false
			}
		}()
		return v.ref == o.ref
	}
	return v.bits == o.bits
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.bits != 0 {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindFloat:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.ref.(string))
	case KindEntity:
		return fmt.Sprintf("entity#%d", v.bits)
	case KindHost:
		return fmt.Sprintf("host(%T)", v.ref)
	}
	return "invalid"
}
