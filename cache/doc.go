// Package cache memoizes rendered code text.
//
// It provides a Cache interface with a bounded in-memory implementation,
// SHA-256-based key derivation from a symbol name and its render inputs, TTL
// policies, and a Memo that fills misses through a callback. Entries expire so
// that source edits on disk become visible again.
package cache
