package coderender

import "errors"

// Sentinel errors for code rendering.
var (
	// ErrNoSymbol indicates the runtime has no symbol for a function pointer.
	ErrNoSymbol = errors.New("coderender: no symbol for function")

	// ErrNoDecl indicates no function declaration or literal covers the line.
	ErrNoDecl = errors.New("coderender: no function declaration at line")

	// ErrNotAFunc indicates the value passed to RenderCode is not a func.
	ErrNotAFunc = errors.New("coderender: value is not a function")
)
