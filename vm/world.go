package vm

// Instance is the storage behind one entity: the object it was spawned
// from and its per-instance fields. Array-valued fields keep one Value per
// slot.
type Instance struct {
	Object Symbol
	Fields map[Symbol][]Value
}

// World is the ambient context shared by every binding of a VM. It is
// passed explicitly to trampolines whose bindings declare a *World
// receiver.
type World struct {
	Globals   map[Symbol]Value
	Instances *EntityMap[Entity, Instance]
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		Globals:   make(map[Symbol]Value),
		Instances: NewEntityMap[Entity, Instance](),
	}
}

// Spawn allocates a new instance of object and returns its entity.
func (w *World) Spawn(object Symbol) Entity {
	return w.Instances.Push(Instance{
		Object: object,
		Fields: make(map[Symbol][]Value),
	})
}

// Field reads slot of field on entity. Missing entities, fields and slots
// read as Nil.
func (w *World) Field(entity Entity, field Symbol, slot int) Value {
	inst, ok := w.Instances.Get(entity)
	if !ok || slot < 0 {
		return Nil
	}
	values := inst.Fields[field]
	if slot >= len(values) {
		return Nil
	}
	return values[slot]
}

// SetField writes slot of field on entity, growing the field's slot list
// and the arena as needed.
func (w *World) SetField(entity Entity, field Symbol, slot int, value Value) {
	if slot < 0 {
		return
	}
	inst := w.Instances.Ensure(entity)
	if inst.Fields == nil {
		inst.Fields = make(map[Symbol][]Value)
	}
	values := inst.Fields[field]
	if slot >= len(values) {
		grown := make([]Value, slot+1)
		copy(grown, values)
		values = grown
	}
	values[slot] = value
	inst.Fields[field] = values
}
