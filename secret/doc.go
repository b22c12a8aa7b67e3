// Package secret expands environment references in configuration values.
//
// Expansion is strict: a reference to an unset variable is an error
// rather than an empty string, so a typo in a log path cannot silently
// redirect output to the filesystem root.
package secret
