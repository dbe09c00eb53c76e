package vm

import (
	"reflect"
)

// ---------------------------------------------------------------------------
// Type Marshaling: Go <-> Value conversion
// ---------------------------------------------------------------------------

var (
	valueType  = reflect.TypeFor[Value]()
	entityType = reflect.TypeFor[Entity]()
)

// ValueOf converts a Go value to a Value. Values pass through unchanged;
// basic kinds map to their dynamic counterparts; anything else is wrapped
// as a host value.
func ValueOf(goVal any) Value {
	switch x := goVal.(type) {
	case nil:
		return Nil
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case Entity:
		return EntityValue(x)
	case []byte:
		return String(string(x))
	}

	v := reflect.ValueOf(goVal)
	switch v.Kind() {
	case reflect.Bool:
		return Bool(v.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int(int64(v.Uint()))

	case reflect.Float32, reflect.Float64:
		return Float(v.Float())

	case reflect.String:
		return String(v.String())

	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return Nil
		}
	}
	return Host(goVal)
}

// ToGo converts a Value to its natural Go representation.
func ToGo(v Value) any {
	switch v.kind {
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindInt:
		n, _ := v.AsInt()
		return n
	case KindFloat:
		f, _ := v.AsFloat()
		return f
	case KindString, KindHost:
		return v.ref
	case KindEntity:
		e, _ := v.AsEntity()
		return e
	}
	return nil
}

// ConvertTo converts v to type t. When v cannot represent a t the zero
// value of t is returned; conversion never fails.
func ConvertTo(v Value, t reflect.Type) reflect.Value {
	out := reflect.New(t).Elem()
	if t == valueType {
		out.Set(reflect.ValueOf(v))
		return out
	}
	if t == entityType {
		if e, ok := v.AsEntity(); ok {
			out.SetUint(uint64(e))
		}
		return out
	}

	switch t.Kind() {
	case reflect.Bool:
		if b, ok := v.AsBool(); ok {
			out.SetBool(b)
		}
		return out

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, ok := v.AsInt(); ok && !out.OverflowInt(n) {
			out.SetInt(n)
		}
		return out

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n, ok := v.AsInt(); ok && n >= 0 && !out.OverflowUint(uint64(n)) {
			out.SetUint(uint64(n))
		}
		return out

	case reflect.Float32, reflect.Float64:
		if f, ok := v.AsFloat(); ok && !out.OverflowFloat(f) {
			out.SetFloat(f)
		}
		return out

	case reflect.String:
		if s, ok := v.AsString(); ok {
			out.SetString(s)
		}
		return out
	}

	goVal := ToGo(v)
	if goVal == nil {
		return out
	}
	gv := reflect.ValueOf(goVal)
	switch {
	case gv.Type().AssignableTo(t):
		out.Set(gv)
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && gv.Kind() == reflect.String:
		out.Set(gv.Convert(t))
	}
	return out
}

// Convert converts v to T, substituting T's zero value when v cannot
// represent a T. Generated trampolines use it for every parameter whose
// declared type is not Value.
func Convert[T any](v Value) T {
	out := ConvertTo(v, reflect.TypeFor[T]())
	if x, ok := out.Interface().(T); ok {
		return x
	}
	var zero T
	return zero
}
