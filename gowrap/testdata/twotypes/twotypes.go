// Package twotypes declares bindings for two host types side by side.
package twotypes

type A struct{ n int }

type B struct{ n int }

//bind:function
func (a *A) Inc() int { a.n++; return a.n }

//bind:function
func (b *B) Dec() int { b.n--; return b.n }

//bind:function
func Reset(b *B) { b.n = 0 }
