package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/jonwraymond/probe/annotate"
	"github.com/jonwraymond/probe/coderender"
	"github.com/jonwraymond/probe/config"
	"github.com/jonwraymond/probe/logwriter"
	"github.com/jonwraymond/probe/observe"
	"github.com/jonwraymond/probe/render"
)

// Version is the probe release.
const Version = "0.3.0"

// KV is a keyword value for Log.
type KV struct {
	Key   string
	Value any
}

// Printer renders values to an output stream and writes records to a
// trace log. It is safe for concurrent use.
type Printer struct {
	writer   *logwriter.Writer
	recorder *observe.Recorder
	opts     render.Options
	dumpOpts render.Options
	plain    *annotate.Formatter
	styled   *annotate.Formatter
	styler   annotate.Styler
	out      io.Writer
	lines    coderender.LineSource
}

// Option configures a Printer.
type Option func(*printerConfig)

type printerConfig struct {
	opts     render.Options
	dumpOpts render.Options
	styler   annotate.Styler
	out      io.Writer
	recorder observe.RecorderConfig
	observer observe.Observer
}

// WithRenderOptions sets the options used by Sprint and Print.
func WithRenderOptions(opts render.Options) Option {
	return func(c *printerConfig) { c.opts = opts }
}

// WithDumpOptions sets the options used by Dump and for traced values.
func WithDumpOptions(opts render.Options) Option {
	return func(c *printerConfig) {
		c.dumpOpts = opts
		c.recorder.Render = opts
	}
}

// WithStyler decorates the output of Print, e.g. with terminal colors.
func WithStyler(s annotate.Styler) Option {
	return func(c *printerConfig) { c.styler = s }
}

// WithOutput sets where Print writes. Default: os.Stdout
func WithOutput(w io.Writer) Option {
	return func(c *printerConfig) { c.out = w }
}

// WithRecorder sets the telemetry of traced calls. Its Writer and Render
// fields are replaced by the Printer's.
func WithRecorder(cfg observe.RecorderConfig) Option {
	return func(c *printerConfig) {
		opts := c.recorder.Render
		c.recorder = cfg
		c.recorder.Render = opts
	}
}

// WithObserver routes the spans, metrics and warnings of traced calls
// through obs. The caller keeps ownership of obs and shuts it down.
func WithObserver(obs observe.Observer) Option {
	return func(c *printerConfig) { c.observer = obs }
}

// New creates a Printer that logs to w.
func New(w *logwriter.Writer, opts ...Option) (*Printer, error) {
	if w == nil {
		w = logwriter.Default()
	}
	rc := observe.DefaultRecorderConfig()
	cfg := printerConfig{
		opts:     render.DefaultOptions(),
		dumpOpts: rc.Render,
		styler:   annotate.Plain{},
		out:      os.Stdout,
		recorder: rc,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.opts.Validate(); err != nil {
		return nil, fmt.Errorf("probe: render options: %w", err)
	}
	if err := cfg.dumpOpts.Validate(); err != nil {
		return nil, fmt.Errorf("probe: dump options: %w", err)
	}

	cfg.recorder.Writer = w
	var rec *observe.Recorder
	var err error
	if cfg.observer != nil {
		rec, err = observe.RecorderFromObserver(cfg.observer, cfg.recorder)
	} else {
		rec, err = observe.NewRecorder(cfg.recorder)
	}
	if err != nil {
		return nil, err
	}

	coder := cfg.opts.CodeRenderer
	if coder == nil {
		coder = coderender.Default()
	}
	lines, _ := coder.(coderender.LineSource)

	styled := annotate.DefaultConfig()
	styled.Styler = cfg.styler
	return &Printer{
		writer:   w,
		recorder: rec,
		opts:     cfg.opts,
		dumpOpts: cfg.dumpOpts,
		plain:    annotate.New(annotate.DefaultConfig()),
		styled:   annotate.New(styled),
		styler:   cfg.styler,
		out:      cfg.out,
		lines:    lines,
	}, nil
}

// FromConfig builds a Printer from cfg: the configured log, render and
// trace options, and an Observer built from cfg.Observe for the spans,
// metrics and warnings of traced calls. The Observer's log lines go to
// diag, or os.Stderr when diag is nil. opts are applied after the
// configured ones. Call shutdown to flush telemetry.
func FromConfig(ctx context.Context, cfg *config.Config, diag io.Writer, opts ...Option) (p *Printer, shutdown func(context.Context) error, err error) {
	w, err := cfg.Writer()
	if err != nil {
		return nil, nil, err
	}
	renderOpts, err := cfg.RenderOptions()
	if err != nil {
		return nil, nil, err
	}
	traceOpts, err := cfg.TraceOptions()
	if err != nil {
		return nil, nil, err
	}
	if diag == nil {
		diag = os.Stderr
	}
	obs, err := observe.NewObserver(ctx, cfg.Observe, observe.WithLogWriter(diag))
	if err != nil {
		return nil, nil, fmt.Errorf("probe: observer: %w", err)
	}

	all := append([]Option{
		WithRenderOptions(renderOpts),
		WithDumpOptions(traceOpts),
		WithObserver(obs),
	}, opts...)
	p, err = New(w, all...)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, nil, err
	}
	return p, obs.Shutdown, nil
}

var defaultPrinter = sync.OnceValue(func() *Printer {
	p, _ := New(logwriter.Default())
	return p
})

// Default returns the process-wide Printer, which logs to
// logwriter.DefaultPath().
func Default() *Printer {
	return defaultPrinter()
}

// Writer returns the trace log.
func (p *Printer) Writer() *logwriter.Writer { return p.writer }

// Recorder returns the recorder used by Wrap.
func (p *Printer) Recorder() *observe.Recorder { return p.recorder }

// Sprint renders v as plain text.
func (p *Printer) Sprint(v any) string {
	return p.plain.Format(render.Render(v, p.opts))
}

// Print writes each value to the output, preceded by its position.
func (p *Printer) Print(values ...any) error {
	var b strings.Builder
	for i, v := range values {
		b.WriteString(p.styler.Style(render.TagKey, strconv.Itoa(i)))
		b.WriteByte('\n')
		b.WriteString(p.styled.Format(render.Render(v, p.opts)))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Log appends one record holding values, one per line. KV values become
// keyword lines; everything else is written in its fmt form.
func (p *Printer) Log(values ...any) error {
	var rec logwriter.Values
	for _, v := range values {
		if kv, ok := v.(KV); ok {
			rec.Kwargs = append(rec.Kwargs, logwriter.Pair{Key: kv.Key, Value: fmt.Sprint(kv.Value)})
			continue
		}
		rec.Args = append(rec.Args, fmt.Sprint(v))
	}
	return p.writer.Append(rec)
}

// Dump appends the rendered form of v.
func (p *Printer) Dump(v any) error {
	return p.writer.Append(logwriter.RecordFunc(func() (string, error) {
		return p.plain.Format(render.Render(v, p.dumpOpts)), nil
	}))
}

// Stack appends the caller's stack, one frame per line followed by the
// statement at that line when its source file is readable.
func (p *Printer) Stack() error {
	return p.stack(1)
}

func (p *Printer) stack(skip int) error {
	frames := observe.CallerFrames(skip + 1)
	var b strings.Builder
	b.WriteString(" - \n")
	for _, f := range frames {
		b.WriteString("\t" + f.File + ":" + strconv.Itoa(f.Line) + " in " + f.Function)
		if p.lines != nil {
			if stmt, ok := p.lines.SourceLine(f.File, f.Line); ok {
				b.WriteString(" -- " + stmt)
			}
		}
		b.WriteByte('\n')
	}
	return p.writer.Append(logwriter.Text(b.String()))
}

// Sprint renders v with the given options, or render.DefaultOptions().
func Sprint(v any, opts ...render.Options) string {
	o := render.DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	return annotate.New(annotate.DefaultConfig()).Format(render.Render(v, o))
}

// Print writes the rendered values to standard output.
func Print(values ...any) error { return Default().Print(values...) }

// Log appends values to the default log.
func Log(values ...any) error { return Default().Log(values...) }

// Dump appends the rendered form of v to the default log.
func Dump(v any) error { return Default().Dump(v) }

// Stack appends the caller's stack to the default log.
func Stack() error { return Default().stack(1) }

// Inspect logs v and returns it, so it can wrap any expression.
func Inspect[T any](v T) T {
	_ = Default().Log(v)
	return v
}

// DumpInPlace dumps v and returns it.
func DumpInPlace[T any](v T) T {
	_ = Default().Dump(v)
	return v
}

// Wrap traces every call of fn through the default Printer.
func Wrap[F any](fn F) F {
	return observe.WrapFunc(Default().recorder, fn)
}

// WrapWith traces every call of fn through p.
func WrapWith[F any](p *Printer, fn F) F {
	return observe.WrapFunc(p.recorder, fn)
}
