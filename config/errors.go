package config

import "errors"

var (
	// ErrInvalidMaxDepth indicates a negative render or trace depth.
	ErrInvalidMaxDepth = errors.New("config: max depth must not be negative")

	// ErrInvalidDeepLevel indicates a negative deep level.
	ErrInvalidDeepLevel = errors.New("config: deep level must not be negative")

	// ErrInvalidColor indicates an unknown color mode.
	ErrInvalidColor = errors.New("config: invalid color mode")

	// ErrInvalidPerm indicates a log permission that is not an octal mode.
	ErrInvalidPerm = errors.New("config: invalid log file permission")

	// ErrInvalidEnv indicates a PROBE_* variable that could not be parsed.
	ErrInvalidEnv = errors.New("config: invalid environment override")
)
