// Package broken holds malformed binding directives for the loader tests.
package broken

import "github.com/chazu/bindc/vm"

type Widget struct{ n int }

type Other struct{}

//bind:function
func (w *Widget) Size() int { return w.n }

//bind:frobnicate
func (w *Widget) Unknown() {}

//bind:get
func (w *Widget) NoName() int { return w.n }

//bind:function one two
func (w *Widget) TooMany() {}

//bind:function
func (o *Other) Elsewhere() {}

//bind:function
func Loose(n int) int { return n }

//bind:function
func (w *Widget) BadOrder(x int, world *vm.World) {}

//bind:get count
func (w *Widget) Count() int { return w.n }

//bind:get count
func (w *Widget) Total() int { return w.n }
