package health

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonwraymond/probe/coderender"
	"github.com/jonwraymond/probe/logwriter"
	"github.com/jonwraymond/probe/resilience"
)

func TestSinkChecker(t *testing.T) {
	dir := t.TempDir()
	w, err := logwriter.New(filepath.Join(dir, "probe.log"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := NewSinkChecker(w).Check(context.Background())
	if got.Status != StatusHealthy {
		t.Fatalf("Check() = %+v, want healthy", got)
	}
	if got.Details["circuit"] != "closed" || got.Details["path"] != w.Path() {
		t.Errorf("Details = %v", got.Details)
	}
}

func TestSinkChecker_NotWritable(t *testing.T) {
	w, err := logwriter.New(filepath.Join(t.TempDir(), "missing", "probe.log"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := NewSinkChecker(w).Check(context.Background())
	if got.Status != StatusUnhealthy || got.Error == nil {
		t.Errorf("Check() = %+v, want unhealthy", got)
	}
}

func TestSinkChecker_CircuitOpen(t *testing.T) {
	w, err := logwriter.New(
		filepath.Join(t.TempDir(), "missing", "probe.log"),
		logwriter.WithExecutor(logwriter.NewSinkExecutor(
			resilience.CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour},
			resilience.RetryConfig{},
		)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = w.Append(logwriter.Text("x"))

	got := NewSinkChecker(w).Check(context.Background())
	if got.Status != StatusUnhealthy || !errors.Is(got.Error, logwriter.ErrSinkUnavailable) {
		t.Errorf("Check() = %+v, want circuit open", got)
	}
}

func TestSinkChecker_Cancelled(t *testing.T) {
	w, err := logwriter.New(filepath.Join(t.TempDir(), "probe.log"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := NewSinkChecker(w).Check(ctx); !errors.Is(got.Error, context.Canceled) {
		t.Errorf("Check() = %+v, want cancelled", got)
	}
}

func TestSourceChecker(t *testing.T) {
	r, err := coderender.NewSourceRenderer(coderender.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSourceRenderer: %v", err)
	}
	if got := NewSourceChecker(r).Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Check() = %+v, want healthy", got)
	}
}

func TestSourceChecker_Fallback(t *testing.T) {
	got := NewSourceChecker(coderender.Fallback("no code renderer")).Check(context.Background())
	if got.Status != StatusDegraded || !errors.Is(got.Error, ErrSourceUnavailable) {
		t.Fatalf("Check() = %+v, want degraded", got)
	}
	if got.Details["reason"] != "no code renderer" {
		t.Errorf("reason = %v", got.Details["reason"])
	}
}
