package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/bindc/bind"
)

// runInspect prints the descriptor manifests named in args.
// Usage:
//
//	bindgen inspect examples/sprite/sprite_bind.cbor
func runInspect(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: bindgen inspect file.cbor ...")
		return 2
	}
	status := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		set, err := bind.UnmarshalSet(data)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading %s: %v\n", path, err)
			status = 1
			continue
		}
		describe(stdout, set)
	}
	return status
}

// describe writes a readable listing of a binding set.
func describe(w io.Writer, set *bind.BindingSet) {
	fmt.Fprintf(w, "%s: %d functions, %d members\n", set.Type, len(set.Functions), len(set.Members))
	for i := range set.Functions {
		fn := &set.Functions[i]
		fmt.Fprintf(w, "  function %-12s %s(%s)%s\n", fn.Name, fn.GoName, functionParams(fn), returnLabel(fn))
	}
	for _, m := range set.Members {
		var access []string
		if m.Getter != nil {
			access = append(access, "get "+m.Getter.Name)
		}
		if m.Setter != nil {
			access = append(access, "set "+m.Setter.Name)
		}
		fmt.Fprintf(w, "  member   %-12s %s\n", m.Name, strings.Join(access, ", "))
	}
}

func functionParams(fn *bind.Function) string {
	var parts []string
	for _, r := range fn.Receivers {
		parts = append(parts, r.String())
	}
	for _, p := range fn.Params {
		if p.Mode == bind.Direct {
			parts = append(parts, "value")
			continue
		}
		parts = append(parts, p.Type)
	}
	if fn.Variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func returnLabel(fn *bind.Function) string {
	switch {
	case fn.Return == bind.Fallible && fn.HasResult:
		return " -> value, error"
	case fn.Return == bind.Fallible:
		return " -> error"
	case fn.HasResult:
		return " -> value"
	}
	return ""
}
