// Package vm is the runtime side of script bindings.
//
// This package contains:
//   - Tagged dynamic values and conversion to and from Go
//   - Process-wide symbol interning
//   - Entity arenas and the World passed to bindings
//   - Per-host-type dispatch tables of native functions and members
package vm
