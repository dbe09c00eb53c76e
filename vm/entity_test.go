package vm

import (
	"slices"
	"testing"
)

type ref uint32

func TestEntityMapPush(t *testing.T) {
	m := NewEntityMap[ref, int]()
	k1 := m.Push(12)
	k2 := m.Push(34)

	if *m.At(k1) != 12 {
		t.Errorf("At(k1) = %d, want 12", *m.At(k1))
	}
	if *m.At(k2) != 34 {
		t.Errorf("At(k2) = %d, want 34", *m.At(k2))
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestEntityMapGet(t *testing.T) {
	m := NewEntityMap[ref, string]()
	k := m.Push("a")

	if v, ok := m.Get(k); !ok || v != "a" {
		t.Errorf("Get(k) = %q, %v", v, ok)
	}
	if _, ok := m.Get(k + 1); ok {
		t.Error("Get past the end should report false")
	}
}

func TestEntityMapEnsureGrows(t *testing.T) {
	m := WithCapacity[ref, int](2)
	if m.Len() != 2 {
		t.Fatalf("WithCapacity(2).Len() = %d", m.Len())
	}

	*m.Ensure(5) = 7
	if m.Len() != 6 {
		t.Errorf("Len() after Ensure(5) = %d, want 6", m.Len())
	}
	if v, _ := m.Get(5); v != 7 {
		t.Errorf("Get(5) = %d, want 7", v)
	}
	if v, _ := m.Get(3); v != 0 {
		t.Errorf("Get(3) = %d, want zero value", v)
	}
}

func TestEntityMapResizeShrink(t *testing.T) {
	m := NewEntityMap[ref, int]()
	for i := range 5 {
		m.Push(i)
	}
	m.Resize(2)
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	m.Resize(4)
	if v, _ := m.Get(3); v != 0 {
		t.Errorf("regrown slot = %d, want 0", v)
	}
}

func TestEntityMapKeysOrder(t *testing.T) {
	m := NewEntityMap[ref, string]()
	m.Push("a")
	m.Push("b")
	m.Push("c")

	if got := slices.Collect(m.Keys()); !slices.Equal(got, []ref{0, 1, 2}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := slices.Collect(m.Backward()); !slices.Equal(got, []ref{2, 1, 0}) {
		t.Errorf("Backward() = %v", got)
	}

	m.Swap(0, 2)
	var vals []string
	for _, v := range m.All() {
		vals = append(vals, v)
	}
	if !slices.Equal(vals, []string{"c", "b", "a"}) {
		t.Errorf("All() after Swap = %v", vals)
	}
}

func TestWorldFields(t *testing.T) {
	w := NewWorld()
	obj := Intern("obj_player")
	hp := Intern("hp")

	e := w.Spawn(obj)
	if got := w.Field(e, hp, 0); !got.IsNil() {
		t.Errorf("unset field = %v, want nil", got)
	}

	w.SetField(e, hp, 2, Int(30))
	if got := w.Field(e, hp, 2); !got.Equal(Int(30)) {
		t.Errorf("Field(hp, 2) = %v", got)
	}
	if got := w.Field(e, hp, 1); !got.IsNil() {
		t.Errorf("Field(hp, 1) = %v, want nil", got)
	}

	// Writes to an entity past the arena grow it.
	w.SetField(Entity(9), hp, 0, Int(1))
	if w.Instances.Len() != 10 {
		t.Errorf("Instances.Len() = %d, want 10", w.Instances.Len())
	}
}
