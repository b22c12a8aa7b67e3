// Package probe inspects live values and function calls while debugging.
//
// Sprint renders any value, however deeply nested or self-referential, as
// annotated indented text:
//
//	fmt.Println(probe.Sprint(cfg))
//
// The remaining helpers write to an append-only trace log (by default
// probe.log in the temp directory, or $PROBE_LOG_PATH) so output never
// mixes with the program's own:
//
//	probe.Log("loaded", n, probe.KV{Key: "path", Value: p}) // one record of values
//	probe.Dump(cfg)                                         // a rendered value
//	probe.Stack()                                           // the caller's stack
//	x = probe.Inspect(x)                                    // log x in place
//	get = probe.Wrap(store.Get)                             // trace every call
//
// Every call traced through Wrap appends an entry record before it runs and
// an exit or exception record after, correlated by a numeric tag. Watch the
// log with tail -f.
package probe
