package observe

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/probe/annotate"
	"github.com/jonwraymond/probe/logwriter"
	"github.com/jonwraymond/probe/render"
)

// ExecuteFunc is the uniform call signature wrapped by Recorder.Wrap.
type ExecuteFunc func(ctx context.Context, meta CallMeta, input any) (any, error)

const (
	// DefaultTraceDepth bounds how deep traced arguments and results are
	// rendered.
	DefaultTraceDepth = 3
	// DefaultTraceDeepLevel is the depth below which traced records list
	// their methods.
	DefaultTraceDeepLevel = 1
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// Writer receives the call records. Default: logwriter.Default()
	Writer *logwriter.Writer

	// Render bounds how arguments and results are rendered.
	Render render.Options

	// Format lays out rendered values. Default: annotate.DefaultConfig()
	Format annotate.Config

	// Tracer, Metrics and Logger default to no-ops.
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger

	// Now is the clock used for tags and durations. Default: time.Now
	Now func() time.Time
}

// DefaultRecorderConfig returns a config with shallow rendering and no-op
// telemetry.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Render: render.Options{
			MaxDepth:  DefaultTraceDepth,
			DeepLevel: DefaultTraceDeepLevel,
		},
		Format: annotate.DefaultConfig(),
	}
}

// Recorder appends entry, exit and exception records for wrapped calls.
//
// Contract:
//   - Concurrency: safe for concurrent use; wrapped functions may be called
//     from any goroutine.
//   - Context: the span context is passed to the wrapped call.
//   - Errors: results, errors and panics of the wrapped call reach the
//     caller unchanged. Log failures are reported through the Logger and
//     never escape.
type Recorder struct {
	writer  *logwriter.Writer
	opts    render.Options
	format  *annotate.Formatter
	tracer  Tracer
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if err := cfg.Render.Validate(); err != nil {
		return nil, fmt.Errorf("observe: render options: %w", err)
	}
	r := &Recorder{
		writer:  cfg.Writer,
		opts:    cfg.Render,
		format:  annotate.New(cfg.Format),
		tracer:  cfg.Tracer,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if r.writer == nil {
		r.writer = logwriter.Default()
	}
	if r.tracer == nil {
		r.tracer = newNoopTracer()
	}
	if r.metrics == nil {
		r.metrics = noopMetrics{}
	}
	if r.logger == nil {
		r.logger = &noopLogger{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// RecorderFromObserver creates a Recorder whose spans, metrics and warnings
// go through obs. Telemetry fields already set in cfg are replaced.
func RecorderFromObserver(obs Observer, cfg RecorderConfig) (*Recorder, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, fmt.Errorf("observe: create metrics: %w", err)
	}
	cfg.Tracer = NewTracer(obs.Tracer())
	cfg.Metrics = metrics
	cfg.Logger = obs.Logger()
	return NewRecorder(cfg)
}

// Writer returns the log the recorder appends to.
func (r *Recorder) Writer() *logwriter.Writer { return r.writer }

// Sprint renders v the way traced arguments are rendered.
func (r *Recorder) Sprint(v any) string {
	return r.format.Format(render.Render(v, r.opts))
}

// Wrap wraps fn so that every call is recorded under the CallMeta it is
// called with. A map[string]any input is logged as keyword arguments in
// key order; any other input is logged as one positional argument.
func (r *Recorder) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, meta CallMeta, input any) (any, error) {
		traced := meta
		if traced.Func == "" {
			traced = MetaForName(meta.Name)
			traced.Tag = meta.Tag
		}
		args, kwargs := splitInput(input)

		var result any
		_, err := r.observe(ctx, traced, args, kwargs, func(ctx context.Context) ([]any, error) {
			var err error
			result, err = fn(ctx, meta, input)
			return []any{result}, err
		})
		return result, err
	}
}

func splitInput(input any) ([]any, []Kwarg) {
	m, ok := input.(map[string]any)
	if !ok {
		return []any{input}, nil
	}
	kwargs := make([]Kwarg, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		kwargs = append(kwargs, Kwarg{Key: k, Value: m[k]})
	}
	return nil, kwargs
}

// tag returns the correlation tag for a call starting now: the time in
// units of 100µs, modulo one million.
func (r *Recorder) tag() int64 {
	return (r.now().UnixNano() / 100_000) % 1_000_000
}

// observe records one call of invoke. The entry record is appended before
// invoke runs and the exit or exception record after it returns. A panic
// is recorded and then re-raised with the same value.
func (r *Recorder) observe(ctx context.Context, meta CallMeta, args []any, kwargs []Kwarg, invoke func(context.Context) ([]any, error)) (results []any, err error) {
	meta.Tag = r.tag()
	ctx, span := r.tracer.StartSpan(ctx, meta)
	r.append(ctx, meta, CallEntry{Tag: meta.Tag, Name: meta.Name, Args: args, Kwargs: kwargs, Sprint: r.Sprint})
	start := r.now()

	returned := false
	defer func() {
		if returned {
			return
		}
		p := recover()
		fail := ErrGoexit
		typ, msg := failureInfo(ErrGoexit, false, nil)
		if p != nil {
			fail = panicError(p)
			typ, msg = failureInfo(nil, true, p)
		}
		r.append(ctx, meta, CallException{Tag: meta.Tag, Name: meta.Name, Type: typ, Message: msg, Stack: callerStack()})
		r.finish(ctx, span, meta, start, fail)
		if p != nil {
			panic(p)
		}
	}()

	results, err = invoke(ctx)
	returned = true

	if err != nil {
		typ, msg := failureInfo(err, false, nil)
		r.append(ctx, meta, CallException{Tag: meta.Tag, Name: meta.Name, Type: typ, Message: msg, Stack: callerStack()})
	} else {
		r.append(ctx, meta, CallExit{Tag: meta.Tag, Name: meta.Name, Results: results, Sprint: r.Sprint})
	}
	r.finish(ctx, span, meta, start, err)
	return results, err
}

// append writes one record. Failures, including panics while appending,
// become warnings.
func (r *Recorder) append(ctx context.Context, meta CallMeta, rec logwriter.Record) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithCall(meta).Warn(ctx, "call trace append panicked",
				Field{Key: "error", Value: fmt.Sprint(p)})
		}
	}()
	if err := r.writer.AppendContext(context.WithoutCancel(ctx), rec); err != nil {
		r.logger.WithCall(meta).Warn(ctx, "call trace append failed",
			Field{Key: "error", Value: err.Error()},
			Field{Key: "path", Value: r.writer.Path()})
	}
}

func (r *Recorder) finish(ctx context.Context, span trace.Span, meta CallMeta, start time.Time, err error) {
	duration := r.now().Sub(start)

	r.tracer.EndSpan(span, err)
	r.metrics.RecordCall(ctx, meta, duration, err)

	callLogger := r.logger.WithCall(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration) / float64(time.Millisecond)},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		callLogger.Error(ctx, "traced call failed", fields...)
	} else {
		callLogger.Debug(ctx, "traced call completed", fields...)
	}
}

// panicError converts a recovered value for span and metric reporting.
func panicError(p any) error {
	if err, ok := p.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", p)
}
