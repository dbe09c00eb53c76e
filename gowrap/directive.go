package gowrap

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/chazu/bindc/bind"
)

const directivePrefix = "//bind:"

// directive is one parsed //bind: line.
type directive struct {
	verb string
	args []string
	pos  token.Position
}

// directives returns the //bind: lines of a doc comment in source order.
func directives(fset *token.FileSet, doc *ast.CommentGroup) []directive {
	if doc == nil {
		return nil
	}
	var out []directive
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(c.Text, directivePrefix))
		d := directive{pos: fset.Position(c.Slash)}
		if len(fields) > 0 {
			d.verb = fields[0]
			d.args = fields[1:]
		}
		out = append(out, d)
	}
	return out
}

// annotation turns a directive into a bind.Annotation. goName supplies the
// default function name.
func (d directive) annotation(goName string, style NamingStyle) (bind.Annotation, *bind.Diagnostic) {
	ann := bind.Annotation{Pos: d.pos}
	switch d.verb {
	case "function":
		ann.Kind = bind.AnnotateFunction
		switch len(d.args) {
		case 0:
			ann.Name = ScriptName(goName, style)
		case 1:
			ann.Name = d.args[0]
		default:
			return ann, d.errorf("too many arguments to bind:function on %s", goName)
		}
	case "get", "set":
		ann.Kind = bind.AnnotateGetter
		if d.verb == "set" {
			ann.Kind = bind.AnnotateSetter
		}
		switch len(d.args) {
		case 0:
			return ann, d.errorf("missing member name in bind:%s on %s", d.verb, goName)
		case 1:
			ann.Name = d.args[0]
		default:
			return ann, d.errorf("too many arguments to bind:%s on %s", d.verb, goName)
		}
	case "":
		return ann, d.errorf("empty bind directive on %s", goName)
	default:
		return ann, d.errorf("unknown directive bind:%s on %s", d.verb, goName)
	}
	return ann, nil
}

func (d directive) errorf(format string, args ...any) *bind.Diagnostic {
	return &bind.Diagnostic{Pos: d.pos, Message: fmt.Sprintf(format, args...)}
}
