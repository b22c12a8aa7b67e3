// Package logwriter appends timestamped batches of text records to a log
// file.
//
// Every Append opens the file in append mode, writes one batch with a
// single Write call and closes the file, so concurrent writers, in this
// process or another, never interleave within a batch. A batch is a
// timestamp header, one block per record and a blank line:
//
//	10.18 13:45:02 =>
//	  <0>:42
//	  <1>:"name"
//	  verbose=true
//
// Records are produced lazily through the Record interface. A record that
// fails or panics is written as an inline "!! record error:" line and the
// rest of the batch is kept. Text containing non-printable characters is
// hex-encoded.
//
// Opening the file goes through a resilience.Executor: transient open
// errors are retried, and after repeated failures the sink is reported as
// unavailable (ErrSinkUnavailable) without touching the file system until
// the breaker's reset timeout elapses.
package logwriter
