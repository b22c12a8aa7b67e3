package coderender

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Renderer renders the code behind a function value.
//
// Contract:
// - Totality: RenderCode always returns a string and must not panic.
// - Concurrency: implementations must be safe for concurrent use.
// - Output: every line is prefixed with indent spaces; flags == 0 yields "".
type Renderer interface {
	RenderCode(fn reflect.Value, indent int, flags Flags) string
}

// LineSource returns single lines of source files, e.g. the statement at a
// stack frame.
type LineSource interface {
	SourceLine(path string, line int) (string, bool)
}

// Fallback is a Renderer that returns the same explanation for every
// function. It stands in when no real renderer can be built.
type Fallback string

// RenderCode returns the fallback text, indented.
func (f Fallback) RenderCode(_ reflect.Value, indent int, flags Flags) string {
	if flags == 0 {
		return ""
	}
	return indentLines(string(f), indent)
}

var defaultRenderer = sync.OnceValue(func() Renderer {
	r, err := NewSourceRenderer(DefaultConfig())
	if err != nil {
		return Fallback("no code renderer: " + err.Error())
	}
	return r
})

// Default returns the process-wide SourceRenderer.
func Default() Renderer {
	return defaultRenderer()
}

// lookupSymbol resolves fn to its runtime symbol.
func lookupSymbol(fn reflect.Value) (*runtime.Func, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, ErrNotAFunc
	}
	if fn.IsNil() {
		return nil, ErrNoSymbol
	}
	sym := runtime.FuncForPC(fn.Pointer())
	if sym == nil {
		return nil, ErrNoSymbol
	}
	return sym, nil
}

func indentLines(s string, n int) string {
	if s == "" || n <= 0 {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = pad + ln
	}
	return strings.Join(lines, "\n")
}
