package vm

import "errors"

// Errors returned by the dispatch table helpers. They are wrapped with the
// offending symbol; test with errors.Is.
var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrNotCallable   = errors.New("not a native function")
	ErrNotMember     = errors.New("not a member")
	ErrArity         = errors.New("wrong number of arguments")
	ErrNoGetter      = errors.New("member has no getter")
	ErrNoSetter      = errors.New("member has no setter")
)
