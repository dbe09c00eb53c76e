package vm

import (
	"fmt"
	"sync"
)

// Symbol is an interned identifier naming a function or member. Symbols
// come from one table shared by the whole process, so a symbol interned
// by one registration routine means the same name in every dispatch
// table.
type Symbol uint32

// symbolTable maps names to symbols and back. Entries are only ever
// added; a symbol stays valid for the life of the process.
type symbolTable struct {
	mu    sync.RWMutex
	ids   map[string]Symbol
	names []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		ids:   make(map[string]Symbol),
		names: make([]string, 0, 256),
	}
}

func (st *symbolTable) intern(name string) Symbol {
	st.mu.RLock()
	id, ok := st.ids[name]
	st.mu.RUnlock()
	if ok {
		return id
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	// Another goroutine may have added name between the locks.
	if id, ok := st.ids[name]; ok {
		return id
	}
	id = Symbol(len(st.names))
	st.ids[name] = id
	st.names = append(st.names, name)
	return id
}

func (st *symbolTable) lookup(name string) (Symbol, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	id, ok := st.ids[name]
	return id, ok
}

// name returns "" for a symbol the table never handed out.
func (st *symbolTable) name(id Symbol) string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if int(id) >= len(st.names) {
		return ""
	}
	return st.names[id]
}

func (st *symbolTable) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.names)
}

var symbols = newSymbolTable()

// Intern returns the symbol for name, adding it on first use. Generated
// registration routines intern every bound name at init time.
func Intern(name string) Symbol {
	return symbols.intern(name)
}

// LookupSymbol returns the symbol for name if some caller already
// interned it. Script hosts use it to resolve attribute names without
// growing the table.
func LookupSymbol(name string) (Symbol, bool) {
	return symbols.lookup(name)
}

// String returns the name the symbol was interned from, or #<id> for a
// value that did not come from Intern.
func (s Symbol) String() string {
	if name := symbols.name(s); name != "" || int(s) < symbols.len() {
		return name
	}
	return fmt.Sprintf("#%d", uint32(s))
}
