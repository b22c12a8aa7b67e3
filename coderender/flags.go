package coderender

import (
	"fmt"
	"strings"
)

// Flags selects which views of a function's code are rendered.
type Flags uint8

const (
	// Disasm lists the function's symbol and its PC-to-line table.
	Disasm Flags = 1 << iota
	// Syntax dumps the go/ast tree of the function's declaration.
	Syntax
	// Source prints the gofmt'd source of the function's declaration.
	Source
)

// All enables every view.
const All = Disasm | Syntax | Source

var flagNames = []struct {
	flag Flags
	name string
}{
	{Disasm, "disasm"},
	{Syntax, "syntax"},
	{Source, "source"},
}

// String returns the flag names joined by "|", or "none".
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags converts flag names ("disasm", "syntax", "source", "all") into
// Flags. Names are case-insensitive; "none" and empty names are ignored.
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "", "none":
			continue
		case "all":
			f |= All
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("coderender: unknown introspection flag %q", name)
		}
	}
	return f, nil
}
