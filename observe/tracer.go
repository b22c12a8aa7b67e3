package observe

import (
	"context"
	"path"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CallMeta identifies one traced call.
type CallMeta struct {
	Name    string // Qualified function name, e.g. "example.com/app/store.(*DB).Get"
	Package string // Import path (may be empty)
	Func    string // Function name within the package
	Tag     int64  // Correlation tag shared by the call's records
}

// MetaFor derives CallMeta from a func value's symbol. Closures get the
// compiler's name, e.g. "main.run.func1".
func MetaFor(fn any) CallMeta {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return CallMeta{Name: "func", Func: "func"}
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return CallMeta{Name: "func", Func: "func"}
	}
	return MetaForName(f.Name())
}

// MetaForName splits a qualified symbol name into package and function.
func MetaForName(name string) CallMeta {
	meta := CallMeta{Name: name, Func: name}
	slash := strings.LastIndex(name, "/")
	if dot := strings.Index(name[slash+1:], "."); dot >= 0 {
		meta.Package = name[:slash+1+dot]
		meta.Func = name[slash+2+dot:]
	}
	return meta
}

// Label returns the short display name: the last package path element and
// the function, e.g. "store.(*DB).Get".
func (m CallMeta) Label() string {
	if m.Func == "" {
		return m.Name
	}
	if m.Package == "" {
		return m.Func
	}
	return path.Base(m.Package) + "." + m.Func
}

// SpanName returns the span name for this call.
// Format: call.trace.<label>
func (m CallMeta) SpanName() string {
	return "call.trace." + m.Label()
}

// TagString returns the correlation tag in decimal.
func (m CallMeta) TagString() string {
	return strconv.FormatInt(m.Tag, 10)
}

// Tracer manages spans for traced calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for a call.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any failure.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts an internal span with the call's identity as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("call.name", meta.Name),
		attribute.Int64("call.tag", meta.Tag),
		attribute.Bool("call.error", false),
	}
	if meta.Package != "" {
		attrs = append(attrs, attribute.String("call.package", meta.Package))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the failure if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("call.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
