package bind

import (
	"go/token"
	"reflect"
	"strings"
	"testing"
)

func param(name string, kind ParamKind, typ string) Param {
	return Param{Name: name, Kind: kind, Type: typ}
}

var (
	selfParam  = param("s", KindSelf, "*Sprite")
	worldParam = param("world", KindWorld, "*vm.World")
)

func method(name string, params []Param, results ...Result) *Signature {
	recv := selfParam
	return &Signature{Name: name, Recv: &recv, Params: params, Results: results}
}

func fn(name string, params []Param, results ...Result) *Signature {
	return &Signature{Name: name, Params: params, Results: results}
}

var (
	errResult   = Result{Type: "error", IsError: true}
	floatResult = Result{Type: "float64"}
)

func TestClassifyFunction(t *testing.T) {
	tests := []struct {
		name string
		sig  *Signature
		want Function
	}{
		{
			name: "method with converted params",
			sig: method("Move", []Param{
				param("dx", KindOther, "float64"),
				param("dy", KindOther, "float64"),
			}),
			want: Function{
				Receivers: []Receiver{SelfContext},
				Method:    true,
				Params: []Parameter{
					{Mode: Convert, Type: "float64"},
					{Mode: Convert, Type: "float64"},
				},
				Return: Plain,
			},
		},
		{
			name: "self and world then direct value",
			sig: method("Echo", []Param{
				worldParam,
				param("v", KindValue, "vm.Value"),
			}, Result{Type: "vm.Value"}),
			want: Function{
				Receivers: []Receiver{SelfContext, WorldContext},
				Method:    true,
				Params:    []Parameter{{Mode: Direct, Type: "vm.Value"}},
				Return:    Plain,
				HasResult: true,
			},
		},
		{
			name: "free function without receivers",
			sig:  fn("Clamp", []Param{param("n", KindSlot, "int")}, Result{Type: "int"}),
			want: Function{
				Params:    []Parameter{{Mode: Convert, Type: "int"}},
				Return:    Plain,
				HasResult: true,
			},
		},
		{
			name: "rest slice",
			sig: method("Sum", []Param{
				param("first", KindOther, "float64"),
				param("rest", KindValues, "[]vm.Value"),
			}, floatResult, errResult),
			want: Function{
				Receivers: []Receiver{SelfContext},
				Method:    true,
				Params:    []Parameter{{Mode: Convert, Type: "float64"}},
				Variadic:  true,
				Return:    Fallible,
				HasResult: true,
			},
		},
		{
			name: "spread rest",
			sig: fn("Log", []Param{
				{Name: "args", Kind: KindValues, Type: "...vm.Value", Variadic: true},
			}),
			want: Function{
				Variadic: true,
				Spread:   true,
				Return:   Plain,
			},
		},
		{
			name: "error only",
			sig:  method("Reset", nil, errResult),
			want: Function{
				Receivers: []Receiver{SelfContext},
				Method:    true,
				Return:    Fallible,
			},
		},
		{
			name: "self copy",
			sig: fn("Area", []Param{
				param("s", KindSelfCopy, "Sprite"),
			}, floatResult),
			want: Function{
				Receivers: []Receiver{SelfCopy},
				Return:    Plain,
				HasResult: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, d := ClassifyFunction("sym", tt.sig)
			if d != nil {
				t.Fatalf("ClassifyFunction: %v", d)
			}
			tt.want.Name = "sym"
			tt.want.GoName = tt.sig.Name
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("got  %+v\nwant %+v", *got, tt.want)
			}
		})
	}
}

func TestClassifyFunctionErrors(t *testing.T) {
	tests := []struct {
		name string
		sig  *Signature
		want string
	}{
		{
			name: "receiver after value",
			sig:  method("Bad", []Param{param("x", KindOther, "int"), worldParam}),
			want: "unexpected parameter world *vm.World",
		},
		{
			name: "param after rest",
			sig: method("Bad", []Param{
				param("rest", KindValues, "[]vm.Value"),
				param("x", KindOther, "int"),
			}),
			want: "unexpected parameter x int",
		},
		{
			name: "typed variadic",
			sig: fn("Bad", []Param{
				{Name: "xs", Kind: KindOther, Type: "...int", Variadic: true},
			}),
			want: "unexpected parameter xs ...int",
		},
		{
			name: "three results",
			sig:  method("Bad", nil, floatResult, floatResult, errResult),
			want: "unexpected result list for Bad",
		},
		{
			name: "error first",
			sig:  method("Bad", nil, errResult, floatResult),
			want: "unexpected result list for Bad",
		},
		{
			name: "unnamed leftover",
			sig:  method("Bad", []Param{param("rest", KindValues, "[]vm.Value"), param("_", KindOther, "bool")}),
			want: "unexpected parameter (unnamed) bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d := ClassifyFunction("bad", tt.sig)
			if d == nil {
				t.Fatal("expected diagnostic")
			}
			if !strings.Contains(d.Message, tt.want) {
				t.Errorf("message = %q, want it to contain %q", d.Message, tt.want)
			}
		})
	}
}

func TestClassifyFunctionPosition(t *testing.T) {
	pos := token.Position{Filename: "sprite.go", Line: 12, Column: 30}
	bad := param("w", KindWorld, "*vm.World")
	bad.Pos = pos
	_, d := ClassifyFunction("bad", method("Bad", []Param{param("x", KindOther, "int"), bad}))
	if d == nil {
		t.Fatal("expected diagnostic")
	}
	if d.Pos != pos {
		t.Errorf("Pos = %v, want %v", d.Pos, pos)
	}
	if got := d.Error(); !strings.HasPrefix(got, "sprite.go:12:30: ") {
		t.Errorf("Error() = %q", got)
	}
}

func TestClassifyGetter(t *testing.T) {
	tests := []struct {
		name   string
		sig    *Signature
		entity bool
		slot   bool
		recv   []Receiver
	}{
		{
			name: "plain",
			sig:  method("X", nil, floatResult),
			recv: []Receiver{SelfContext},
		},
		{
			name:   "entity and slot",
			sig:    method("Field", []Param{param("e", KindEntity, "vm.Entity"), param("slot", KindSlot, "int")}, Result{Type: "vm.Value"}),
			entity: true,
			slot:   true,
			recv:   []Receiver{SelfContext},
		},
		{
			name: "slot only",
			sig:  method("Nth", []Param{param("slot", KindSlot, "int")}, floatResult),
			slot: true,
			recv: []Receiver{SelfContext},
		},
		{
			name: "world context",
			sig:  fn("Tick", []Param{worldParam}, Result{Type: "int64"}),
			recv: []Receiver{WorldContext},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, d := ClassifyGetter(tt.sig)
			if d != nil {
				t.Fatalf("ClassifyGetter: %v", d)
			}
			if prop.Entity != tt.entity || prop.Slot != tt.slot {
				t.Errorf("Entity/Slot = %v/%v, want %v/%v", prop.Entity, prop.Slot, tt.entity, tt.slot)
			}
			if !reflect.DeepEqual(prop.Receivers, tt.recv) {
				t.Errorf("Receivers = %v, want %v", prop.Receivers, tt.recv)
			}
			if prop.Value != nil {
				t.Errorf("getter has value parameter %+v", prop.Value)
			}
		})
	}
}

func TestClassifyGetterErrors(t *testing.T) {
	tests := []struct {
		name string
		sig  *Signature
		want string
	}{
		{"no result", method("X", nil), "getter X must return exactly one value"},
		{"error result", method("X", nil, errResult), "getter X must return exactly one value"},
		{"two results", method("X", nil, floatResult, errResult), "getter X must return exactly one value"},
		{"extra param", method("X", []Param{param("scale", KindOther, "float64")}, floatResult), "unexpected parameter scale float64"},
		{"slot before entity", method("X", []Param{param("slot", KindSlot, "int"), param("e", KindEntity, "vm.Entity")}, floatResult), "unexpected parameter e vm.Entity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d := ClassifyGetter(tt.sig)
			if d == nil {
				t.Fatal("expected diagnostic")
			}
			if !strings.Contains(d.Message, tt.want) {
				t.Errorf("message = %q, want %q", d.Message, tt.want)
			}
		})
	}
}

func TestClassifySetter(t *testing.T) {
	tests := []struct {
		name   string
		sig    *Signature
		entity bool
		slot   bool
		value  Parameter
	}{
		{
			name:  "converted value",
			sig:   method("SetX", []Param{param("x", KindOther, "float64")}),
			value: Parameter{Mode: Convert, Type: "float64"},
		},
		{
			name:  "direct value",
			sig:   method("SetTag", []Param{param("v", KindValue, "vm.Value")}),
			value: Parameter{Mode: Direct, Type: "vm.Value"},
		},
		{
			name:  "int value is not a slot",
			sig:   method("SetLives", []Param{param("n", KindSlot, "int")}),
			value: Parameter{Mode: Convert, Type: "int"},
		},
		{
			name:  "entity value is not the entity",
			sig:   method("SetTarget", []Param{param("e", KindEntity, "vm.Entity")}),
			value: Parameter{Mode: Convert, Type: "vm.Entity"},
		},
		{
			name: "entity slot value",
			sig: method("SetField", []Param{
				param("e", KindEntity, "vm.Entity"),
				param("slot", KindSlot, "int"),
				param("v", KindValue, "vm.Value"),
			}),
			entity: true,
			slot:   true,
			value:  Parameter{Mode: Direct, Type: "vm.Value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, d := ClassifySetter(tt.sig)
			if d != nil {
				t.Fatalf("ClassifySetter: %v", d)
			}
			if prop.Entity != tt.entity || prop.Slot != tt.slot {
				t.Errorf("Entity/Slot = %v/%v, want %v/%v", prop.Entity, prop.Slot, tt.entity, tt.slot)
			}
			if prop.Value == nil || !reflect.DeepEqual(*prop.Value, tt.value) {
				t.Errorf("Value = %+v, want %+v", prop.Value, tt.value)
			}
		})
	}
}

func TestClassifySetterErrors(t *testing.T) {
	tests := []struct {
		name string
		sig  *Signature
		want string
	}{
		{"no value", method("SetX", nil), "setter SetX requires a value parameter"},
		{"only world", method("SetX", []Param{worldParam}), "setter SetX requires a value parameter"},
		{"returns", method("SetX", []Param{param("x", KindOther, "float64")}, errResult), "setter SetX must not return a value"},
		{"rest value", method("SetX", []Param{param("xs", KindValues, "[]vm.Value")}), "unexpected parameter xs []vm.Value"},
		{"two values", method("SetX", []Param{param("x", KindOther, "float64"), param("y", KindOther, "float64")}), "unexpected parameter x float64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d := ClassifySetter(tt.sig)
			if d == nil {
				t.Fatal("expected diagnostic")
			}
			if !strings.Contains(d.Message, tt.want) {
				t.Errorf("message = %q, want %q", d.Message, tt.want)
			}
		})
	}
}

func TestReceiverString(t *testing.T) {
	for r, want := range map[Receiver]string{
		SelfContext:  "self",
		SelfCopy:     "self (copy)",
		WorldContext: "world",
		Receiver(9):  "unknown",
	} {
		if got := r.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", r, got, want)
		}
		if r.IsSelf() != (r == SelfContext || r == SelfCopy) {
			t.Errorf("%d.IsSelf() = %v", r, r.IsSelf())
		}
	}
}
