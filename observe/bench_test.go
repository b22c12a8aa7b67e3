package observe

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/jonwraymond/probe/logwriter"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

func BenchmarkLogger_WithCall_ThenLog(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	meta := MetaForName("example.com/app/store.Get")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.WithCall(meta).Info(ctx, "call completed", Field{Key: "duration_ms", Value: 1.5})
	}
}

func BenchmarkCallEntry_LogText(b *testing.B) {
	r, err := NewRecorder(DefaultRecorderConfig())
	if err != nil {
		b.Fatal(err)
	}
	e := CallEntry{
		Tag:    1234,
		Name:   "example.com/app/store.Get",
		Args:   []any{"key", map[string]int{"a": 1, "b": 2}},
		Sprint: r.Sprint,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.LogText()
	}
}

func BenchmarkWrapFunc(b *testing.B) {
	w, err := logwriter.New(filepath.Join(b.TempDir(), "bench.log"))
	if err != nil {
		b.Fatal(err)
	}
	cfg := DefaultRecorderConfig()
	cfg.Writer = w
	r, err := NewRecorder(cfg)
	if err != nil {
		b.Fatal(err)
	}
	wrapped := WrapFunc(r, add)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = wrapped(i, 1)
	}
}
