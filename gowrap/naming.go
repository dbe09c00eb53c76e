package gowrap

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NamingStyle derives a script-visible name from a Go identifier.
type NamingStyle string

const (
	Snake NamingStyle = "snake" // MoveTo -> move_to
	Camel NamingStyle = "camel" // MoveTo -> moveTo
	Keep  NamingStyle = "keep"  // MoveTo -> MoveTo
)

// ParseNamingStyle validates s. The empty string selects Snake.
func ParseNamingStyle(s string) (NamingStyle, error) {
	switch NamingStyle(s) {
	case "", Snake:
		return Snake, nil
	case Camel, Keep:
		return NamingStyle(s), nil
	}
	return "", fmt.Errorf("unknown naming style %q (want snake, camel or keep)", s)
}

// ScriptName converts a Go identifier to a script symbol.
// e.g., "HTTPGet" → "http_get" (snake), "httpGet" (camel)
func ScriptName(goName string, style NamingStyle) string {
	switch style {
	case Keep:
		return goName
	case Camel:
		return toCamel(goName)
	}
	return toSnake(goName)
}

// words splits a Go identifier at case boundaries, keeping acronyms
// together: "HTTPGetURL2" → ["HTTP", "Get", "URL2"].
func words(s string) []string {
	runes := []rune(s)
	var (
		out   []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		switch {
		case cur == '_':
			if i > start {
				out = append(out, string(runes[start:i]))
			}
			start = i + 1
		case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			out = append(out, string(runes[start:i]))
			start = i
		case unicode.IsUpper(cur) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func toSnake(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

func toCamel(s string) string {
	ws := words(s)
	for i, w := range ws {
		if i == 0 {
			ws[i] = strings.ToLower(w)
		} else {
			ws[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(ws, "")
}

// Trampoline roles.
const (
	RoleFunction = ""
	RoleGet      = "Get"
	RoleSet      = "Set"
)

// TrampolineName returns the unexported Go identifier for a trampoline,
// e.g. ("Sprite", RoleGet, "x") → "spriteGetX".
func TrampolineName(typeName, role, symbol string) string {
	return lowerFirst(typeName) + role + toPascal(symbol)
}

// RegisterName returns the registration routine's name for typeName.
func RegisterName(typeName string) string {
	return "Register" + toPascal(typeName)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// toPascal converts a string to PascalCase.
// Any rune that cannot appear in a Go identifier acts as a separator.
func toPascal(s string) string {
	if len(s) == 0 {
		return s
	}

	var b strings.Builder
	nextUpper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			nextUpper = true
			continue
		}
		if nextUpper {
			b.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trampolines assigns collision-free trampoline names for one site.
type trampolines struct {
	typeName string
	used     map[string]bool
}

func newTrampolines(typeName string) *trampolines {
	return &trampolines{
		typeName: typeName,
		used:     map[string]bool{RegisterName(typeName): true},
	}
}

func (t *trampolines) name(role, symbol string) string {
	base := TrampolineName(t.typeName, role, symbol)
	name := base
	for n := 2; t.used[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	t.used[name] = true
	return name
}
