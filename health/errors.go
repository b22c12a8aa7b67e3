package health

import "errors"

var (
	// ErrCheckTimeout indicates a check did not finish before the
	// aggregator's timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrDuplicateChecker indicates a checker name is already registered.
	ErrDuplicateChecker = errors.New("health: duplicate checker")

	// ErrCheckPanicked indicates a checker panicked.
	ErrCheckPanicked = errors.New("health: check panicked")
)
