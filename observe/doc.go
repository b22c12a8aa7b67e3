// Package observe records function calls.
//
// A Recorder wraps a function so that every call appends an entry record
// (correlation tag, qualified name, rendered arguments) to a log before the
// call, and an exit record (rendered results) or an exception record
// (error or panic, with the caller's stack) after it. Results, errors and
// panics reach the caller unchanged; failures of the log itself are
// reported as warnings through a Logger and never escape.
//
// Two wrapping forms are offered. WrapFunc wraps any func value and keeps
// its exact signature:
//
//	get := observe.WrapFunc(rec, store.Get)
//	v, err := get(ctx, "key")
//
// Recorder.Wrap wraps the uniform ExecuteFunc form, where a map[string]any
// input is logged as keyword arguments.
//
// Each call also runs inside an OpenTelemetry span named
// "call.trace.<name>" and is counted by the call.trace.* metrics. Observer
// builds the tracer, meter and structured logger from a Config; without an
// Observer the telemetry is a no-op.
package observe
