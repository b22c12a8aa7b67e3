package logwriter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/probe/resilience"
)

const (
	// DefaultFileName is the log file name under the temp directory.
	DefaultFileName = "probe.log"

	// EnvPath overrides the default log path.
	EnvPath = "PROBE_LOG_PATH"

	// HeaderLayout is the time layout of a batch header.
	HeaderLayout = "01.02 15:04:05 =>"
)

// DefaultPath returns $PROBE_LOG_PATH, or probe.log in the temp directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// Writer appends batches of records to one file.
//
// Contract:
//   - Concurrency: safe for concurrent use; batches are never interleaved.
//   - Errors: Append reports open and write failures; record failures are
//     written inline and never returned.
type Writer struct {
	path string
	perm fs.FileMode
	now  func() time.Time
	exec *resilience.Executor
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for batch headers.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// WithPerm sets the mode used when the file is created.
func WithPerm(perm fs.FileMode) Option {
	return func(w *Writer) {
		w.perm = perm
	}
}

// WithExecutor replaces the default retry and circuit breaker.
func WithExecutor(exec *resilience.Executor) Option {
	return func(w *Writer) {
		w.exec = exec
	}
}

// New creates a Writer for path. The file is not touched until the first
// Append.
func New(path string, opts ...Option) (*Writer, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	w := &Writer{
		path: path,
		perm: 0o600,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.exec == nil {
		w.exec = NewSinkExecutor(resilience.CircuitBreakerConfig{}, resilience.RetryConfig{})
	}
	return w, nil
}

// NewSinkExecutor builds the executor a Writer uses by default: a circuit
// breaker around a retry of transient errors.
func NewSinkExecutor(breaker resilience.CircuitBreakerConfig, retry resilience.RetryConfig) *resilience.Executor {
	if retry.RetryIf == nil {
		retry.RetryIf = resilience.IsTransient
	}
	return resilience.NewExecutor(
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(breaker)),
		resilience.WithRetry(resilience.NewRetry(retry)),
	)
}

var defaultWriter = sync.OnceValue(func() *Writer {
	w, _ := New(DefaultPath())
	return w
})

// Default returns the process-wide writer for DefaultPath, resolved on
// first use.
func Default() *Writer {
	return defaultWriter()
}

// Path returns the log file path.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one batch.
func (w *Writer) Append(records ...Record) error {
	return w.AppendContext(context.Background(), records...)
}

// AppendContext writes one batch. ctx bounds the retry waits.
func (w *Writer) AppendContext(ctx context.Context, records ...Record) error {
	data := w.encode(records)
	err := w.exec.Execute(ctx, func(context.Context) error {
		return w.write(data)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fmt.Errorf("%w: %s", ErrSinkUnavailable, w.path)
	default:
		return fmt.Errorf("logwriter: append %s: %w", w.path, err)
	}
}

func (w *Writer) encode(records []Record) []byte {
	var b bytes.Buffer
	b.WriteString(w.now().Format(HeaderLayout))
	b.WriteByte('\n')
	for _, r := range records {
		text, err := recordText(r)
		if err != nil {
			b.WriteString("!! record error: ")
			b.WriteString(Printable(err.Error()))
			b.WriteByte('\n')
			continue
		}
		if text == "" {
			continue
		}
		b.WriteString(Printable(text))
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	return b.Bytes()
}

func recordText(r Record) (text string, err error) {
	if r == nil {
		return "", ErrNilRecord
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrRecordPanic, p)
		}
	}()
	return r.LogText()
}

// write opens the file and writes data. Only a failed open may be retried:
// once Write has started, part of the batch may already be in the file.
func (w *Writer) write(data []byte) (err error) {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, w.perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = resilience.Permanent(cerr)
		}
	}()
	if _, err := f.Write(data); err != nil {
		return resilience.Permanent(err)
	}
	return nil
}

// Ping opens the file for append and closes it again without writing. The
// breaker is not consulted.
func (w *Writer) Ping() error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, w.perm)
	if err != nil {
		return fmt.Errorf("logwriter: open %s: %w", w.path, err)
	}
	return f.Close()
}

// CircuitState reports the sink breaker state. A writer without a breaker is
// always closed.
func (w *Writer) CircuitState() resilience.State {
	if cb := w.exec.CircuitBreaker(); cb != nil {
		return cb.State()
	}
	return resilience.StateClosed
}
