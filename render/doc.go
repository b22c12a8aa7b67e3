// Package render turns arbitrary Go values into annotated fragment trees.
//
// Rendering is driven by a closed classification of runtime types (see
// Classify) and a depth-bounded recursive descent. Each call to Render runs
// in its own session that tracks the identity of every pointer, map and
// slice it has visited, so self-referential values terminate with a
// "repeated" marker instead of recursing forever.
//
// Rendering never fails. Panics raised while formatting a value or
// enumerating its members become inline error fragments, and values below
// the depth bound become truncation markers.
//
// The fragment tree carries semantic tags and no layout; package annotate
// turns it into text.
package render
