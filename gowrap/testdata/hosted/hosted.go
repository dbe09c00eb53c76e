// Package hosted registers its own bindings, so it depends on the
// generated routine.
package hosted

import "github.com/chazu/bindc/vm"

type Counter struct{ N int }

//bind:function
func (c *Counter) Add(n int) int {
	c.N += n
	return c.N
}

// NewTable returns a frozen table holding the Counter bindings.
func NewTable() *vm.DispatchTable[Counter] {
	table := vm.NewDispatchTable[Counter]()
	RegisterCounter(table)
	table.Freeze()
	return table
}
