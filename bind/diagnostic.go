package bind

import (
	"fmt"
	"go/token"
	"strings"
)

// Diagnostic is one problem found in a declaration site.
type Diagnostic struct {
	Pos     token.Position
	Message string
}

func (d Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return d.Pos.String() + ": " + d.Message
	}
	return d.Message
}

func diagnosticf(pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Diagnostics is every problem found in one declaration site.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no diagnostics"
	case 1:
		return ds[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d binding errors:", len(ds))
	for _, d := range ds {
		sb.WriteString("\n\t")
		sb.WriteString(d.Error())
	}
	return sb.String()
}
