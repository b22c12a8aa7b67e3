package render

import "errors"

// Option validation errors.
var (
	// ErrNegativeDepth indicates Options.MaxDepth is below zero.
	ErrNegativeDepth = errors.New("render: max depth must not be negative")

	// ErrNegativeDeepLevel indicates Options.DeepLevel is below zero.
	ErrNegativeDeepLevel = errors.New("render: deep level must not be negative")
)
