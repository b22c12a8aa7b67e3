// Package coderender renders the code behind a function value.
//
// It is the collaborator the value renderer calls for function
// introspection. A Renderer is total: it always returns a string and never
// panics, falling back to a short explanation when symbols or source files
// are not available.
//
// The default SourceRenderer resolves a function through the runtime symbol
// table and, for the syntax and source flags, parses the Go file that
// declares it. Parsed files are kept in a bounded LRU cache and rendered text
// is memoized for a short TTL so edits on disk surface again.
package coderender
