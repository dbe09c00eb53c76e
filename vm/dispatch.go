package vm

import "fmt"

// Trampoline shapes. S is the host type owning the bindings; self and
// world are threaded explicitly by the caller.
type (
	Function[S any] func(self *S, world *World, args []Value) (Value, error)
	Getter[S any]   func(self *S, world *World, entity Entity, slot int) Value
	Setter[S any]   func(self *S, world *World, entity Entity, slot int, value Value)
)

// ItemKind tags dispatch table entries.
type ItemKind uint8

const (
	ItemNativeFunction ItemKind = iota
	ItemMember
)

func (k ItemKind) String() string {
	switch k {
	case ItemNativeFunction:
		return "native function"
	case ItemMember:
		return "member"
	}
	return "unknown"
}

// Item is a dispatch table entry: NativeFunction[S] or Member[S].
type Item[S any] interface {
	Kind() ItemKind
}

// NativeFunction is a callable binding. Arity counts the fixed
// parameters; Variadic bindings accept any number of extra arguments.
type NativeFunction[S any] struct {
	Fn       Function[S]
	Arity    int
	Variadic bool
}

func (NativeFunction[S]) Kind() ItemKind { return ItemNativeFunction }

// Accepts reports whether n arguments satisfy the binding's arity.
func (f NativeFunction[S]) Accepts(n int) bool {
	if f.Variadic {
		return n >= f.Arity
	}
	return n == f.Arity
}

// Member is a property binding. A nil Get or Set means the member is
// write-only or read-only.
type Member[S any] struct {
	Get Getter[S]
	Set Setter[S]
}

func (Member[S]) Kind() ItemKind { return ItemMember }

// ---------------------------------------------------------------------------
// DispatchTable
// ---------------------------------------------------------------------------

// DispatchTable maps symbols to bindings for host type S.
//
// Entries are inserted during registration and never removed. Once
// frozen the table is read-only and safe for concurrent readers without
// locking.
type DispatchTable[S any] struct {
	items  map[Symbol]Item[S]
	order  []Symbol
	frozen bool
}

// NewDispatchTable creates an empty table.
func NewDispatchTable[S any]() *DispatchTable[S] {
	return &DispatchTable[S]{
		items: make(map[Symbol]Item[S]),
	}
}

// Insert adds or replaces the entry for sym. Inserting into a frozen
// table panics.
func (t *DispatchTable[S]) Insert(sym Symbol, item Item[S]) {
	if t.frozen {
		panic(fmt.Sprintf("vm: insert %q into frozen dispatch table", sym))
	}
	if _, ok := t.items[sym]; !ok {
		t.order = append(t.order, sym)
	}
	t.items[sym] = item
}

// Freeze ends registration.
func (t *DispatchTable[S]) Freeze() {
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
func (t *DispatchTable[S]) Frozen() bool {
	return t.frozen
}

// Lookup returns the entry for sym.
func (t *DispatchTable[S]) Lookup(sym Symbol) (Item[S], bool) {
	item, ok := t.items[sym]
	return item, ok
}

// Len returns the number of entries.
func (t *DispatchTable[S]) Len() int {
	return len(t.items)
}

// Symbols returns the bound symbols in first-insertion order.
func (t *DispatchTable[S]) Symbols() []Symbol {
	result := make([]Symbol, len(t.order))
	copy(result, t.order)
	return result
}

// Function returns the native function bound to sym.
func (t *DispatchTable[S]) Function(sym Symbol) (NativeFunction[S], error) {
	item, ok := t.items[sym]
	if !ok {
		return NativeFunction[S]{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, sym)
	}
	fn, ok := item.(NativeFunction[S])
	if !ok {
		return NativeFunction[S]{}, fmt.Errorf("%w: %s is a %s", ErrNotCallable, sym, item.Kind())
	}
	return fn, nil
}

// Member returns the member bound to sym.
func (t *DispatchTable[S]) Member(sym Symbol) (Member[S], error) {
	item, ok := t.items[sym]
	if !ok {
		return Member[S]{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, sym)
	}
	m, ok := item.(Member[S])
	if !ok {
		return Member[S]{}, fmt.Errorf("%w: %s is a %s", ErrNotMember, sym, item.Kind())
	}
	return m, nil
}

// Call invokes the native function bound to sym after checking arity.
// Errors returned by the binding itself are passed through unchanged.
func (t *DispatchTable[S]) Call(sym Symbol, self *S, world *World, args []Value) (Value, error) {
	fn, err := t.Function(sym)
	if err != nil {
		return Nil, err
	}
	if !fn.Accepts(len(args)) {
		if fn.Variadic {
			return Nil, fmt.Errorf("%w: %s takes at least %d, got %d", ErrArity, sym, fn.Arity, len(args))
		}
		return Nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, sym, fn.Arity, len(args))
	}
	return fn.Fn(self, world, args)
}

// Get reads the member bound to sym.
func (t *DispatchTable[S]) Get(sym Symbol, self *S, world *World, entity Entity, slot int) (Value, error) {
	m, err := t.Member(sym)
	if err != nil {
		return Nil, err
	}
	if m.Get == nil {
		return Nil, fmt.Errorf("%w: %s", ErrNoGetter, sym)
	}
	return m.Get(self, world, entity, slot), nil
}

// Set writes the member bound to sym.
func (t *DispatchTable[S]) Set(sym Symbol, self *S, world *World, entity Entity, slot int, value Value) error {
	m, err := t.Member(sym)
	if err != nil {
		return err
	}
	if m.Set == nil {
		return fmt.Errorf("%w: %s", ErrNoSetter, sym)
	}
	m.Set(self, world, entity, slot, value)
	return nil
}
