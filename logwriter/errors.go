package logwriter

import "errors"

// Sentinel errors for log writing.
var (
	// ErrEmptyPath is returned by New when the path is empty.
	ErrEmptyPath = errors.New("logwriter: empty path")

	// ErrSinkUnavailable is returned while the circuit breaker guarding the
	// file is open.
	ErrSinkUnavailable = errors.New("logwriter: sink unavailable")

	// ErrNilRecord is reported inline for a nil record.
	ErrNilRecord = errors.New("logwriter: nil record")

	// ErrRecordPanic is reported inline for a record that panicked.
	ErrRecordPanic = errors.New("logwriter: record panicked")
)
