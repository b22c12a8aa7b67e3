package observe

import (
	"context"
	"testing"
	"time"
)

func TestObserverContract_Noops(t *testing.T) {
	cfg := Config{
		ServiceName: "observe-test",
		Tracing:     TracingConfig{Enabled: false, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: false, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false, Level: "info"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Fatalf("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Fatalf("expected non-nil meter")
	}
	if obs.Logger() == nil {
		t.Fatalf("expected non-nil logger")
	}
}

func TestLoggerContract_WithCall(t *testing.T) {
	logger := &noopLogger{}
	if logger.WithCall(CallMeta{Name: "noop"}) == nil {
		t.Fatalf("WithCall should return non-nil logger")
	}
}

func TestMetricsContract_NoPanic(t *testing.T) {
	var metrics Metrics = noopMetrics{}
	metrics.RecordCall(context.Background(), CallMeta{Name: "noop"}, 10*time.Millisecond, nil)
}

func TestTracerContract_NoPanic(t *testing.T) {
	tracer := newNoopTracer()
	_, span := tracer.StartSpan(context.Background(), CallMeta{Name: "noop"})
	tracer.EndSpan(span, nil)
}

func TestRecorderContract_Defaults(t *testing.T) {
	r, err := NewRecorder(RecorderConfig{})
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	if r.Writer() == nil {
		t.Fatal("expected the default writer")
	}
	if _, ok := r.tracer.(*noopTracer); !ok {
		t.Errorf("tracer = %T, want *noopTracer", r.tracer)
	}
	if _, ok := r.metrics.(noopMetrics); !ok {
		t.Errorf("metrics = %T, want noopMetrics", r.metrics)
	}
}
