// Package bind classifies host method signatures into binding descriptors,
// validates them per declaration site, and compiles them into dispatch
// table entries.
//
// A declaration site is one host type S and the methods or functions
// marked for exposure to scripts. Each marked declaration is either a
// native function or one side (getter or setter) of a member. The
// classifier turns a Signature into a Function or Property descriptor;
// Collect runs it over a whole site and gathers every diagnostic before
// failing; Compile and Builder turn a validated BindingSet into
// trampolines registered in a vm.DispatchTable.
//
// Source generation lives in package gowrap; it consumes the same
// descriptors.
package bind
