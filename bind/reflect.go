package bind

import (
	"fmt"
	"go/token"
	"reflect"
	"runtime"
	"strings"

	"github.com/chazu/bindc/vm"
)

var (
	errorType  = reflect.TypeFor[error]()
	valueType  = reflect.TypeFor[vm.Value]()
	valuesType = reflect.TypeFor[[]vm.Value]()
	worldType  = reflect.TypeFor[*vm.World]()
	entityType = reflect.TypeFor[vm.Entity]()
	slotType   = reflect.TypeFor[int]()
)

// reflectKind classifies a parameter type for host type self.
func reflectKind(t, self reflect.Type, variadic bool) ParamKind {
	switch {
	case variadic:
		if t.Elem() == valueType {
			return KindValues
		}
		return KindOther
	case t == reflect.PointerTo(self):
		return KindSelf
	case t == self:
		return KindSelfCopy
	case t == worldType:
		return KindWorld
	case t == valueType:
		return KindValue
	case t == valuesType:
		return KindValues
	case t == entityType:
		return KindEntity
	case t == slotType:
		return KindSlot
	}
	return KindOther
}

// ReflectSignature builds a Signature from a function type. Method
// expressions such as (*T).Move are plain functions whose first parameter
// is the receiver, so they classify the same way as a method.
func ReflectSignature(name string, fn, self reflect.Type, pos token.Position) Signature {
	sig := Signature{Name: name, Pos: pos}
	for i := 0; i < fn.NumIn(); i++ {
		in := fn.In(i)
		variadic := fn.IsVariadic() && i == fn.NumIn()-1
		typeStr := in.String()
		if variadic {
			typeStr = "..." + in.Elem().String()
		}
		sig.Params = append(sig.Params, Param{
			Name:     fmt.Sprintf("#%d", i+1),
			Kind:     reflectKind(in, self, variadic),
			Type:     typeStr,
			Variadic: variadic,
			Pos:      pos,
			RType:    in,
		})
	}
	for i := 0; i < fn.NumOut(); i++ {
		out := fn.Out(i)
		sig.Results = append(sig.Results, Result{
			Type:    out.String(),
			IsError: out == errorType,
			RType:   out,
		})
	}
	return sig
}

// funcInfo returns a display name and source position for a function value.
func funcInfo(fn reflect.Value) (string, token.Position) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return fn.Type().String(), token.Position{}
	}
	file, line := f.FileLine(f.Entry())
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name, token.Position{Filename: file, Line: line}
}
