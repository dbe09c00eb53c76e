package bind

import (
	"go/token"
	"go/types"
	"reflect"
)

// ParamKind is the front end's classification of one declared parameter
// type. The classifier only looks at kinds, never at concrete types.
type ParamKind uint8

const (
	KindOther    ParamKind = iota
	KindSelf               // *S
	KindSelfCopy           // S
	KindWorld              // *vm.World
	KindValue              // vm.Value
	KindValues             // []vm.Value or ...vm.Value
	KindEntity             // vm.Entity
	KindSlot               // int
)

var paramKindNames = [...]string{
	KindOther:    "other",
	KindSelf:     "self",
	KindSelfCopy: "self (copy)",
	KindWorld:    "world",
	KindValue:    "value",
	KindValues:   "values",
	KindEntity:   "entity",
	KindSlot:     "slot",
}

func (k ParamKind) String() string {
	if int(k) < len(paramKindNames) {
		return paramKindNames[k]
	}
	return "unknown"
}

func (k ParamKind) isReceiver() bool {
	return k == KindSelf || k == KindSelfCopy || k == KindWorld
}

// Param is one declared parameter as seen by a front end.
type Param struct {
	Name     string
	Kind     ParamKind
	Type     string // printable type, e.g. "float64", "*vm.World"
	Variadic bool   // declared with ...
	Pos      token.Position

	GoType types.Type   // set by the go/types front end
	RType  reflect.Type // set by the reflect front end
}

// Result is one declared result.
type Result struct {
	Type    string
	IsError bool

	GoType types.Type
	RType  reflect.Type
}

// Signature is a front-end neutral view of a function or method.
type Signature struct {
	Name    string // Go identifier
	Recv    *Param // method receiver; nil for plain functions
	Params  []Param
	Results []Result
	Pos     token.Position
}
