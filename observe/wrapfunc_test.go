package observe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func add(a, b int) int { return a + b }

func join(sep string, parts ...string) string { return strings.Join(parts, sep) }

func lookup(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if key == "" {
		return "", errors.New("empty key")
	}
	return "v:" + key, nil
}

func TestWrapFunc_PreservesResults(t *testing.T) {
	r := newTestRecorder(t)
	wrapped := WrapFunc(r.Recorder, add)

	if got := wrapped(2, 3); got != 5 {
		t.Fatalf("wrapped(2, 3) = %d, want 5", got)
	}

	batches := r.batches(t)
	if len(batches) != 2 {
		t.Fatalf("expected 2 records, got %d", len(batches))
	}
	for _, want := range []string{
		"  <1>:in->{{github.com/jonwraymond/probe/observe.add}}\n",
		"  <2>:<int>:2\n",
		"  <3>:<int>:3\n",
	} {
		if !strings.Contains(batches[0], want) {
			t.Errorf("entry missing %q:\n%s", want, batches[0])
		}
	}
	if !strings.Contains(batches[1], "  <3>:<int>:5\n") {
		t.Errorf("exit missing result:\n%s", batches[1])
	}
}

func TestWrapFunc_Variadic(t *testing.T) {
	r := newTestRecorder(t)
	wrapped := WrapFunc(r.Recorder, join)

	if got := wrapped("-", "a", "b", "c"); got != "a-b-c" {
		t.Fatalf("wrapped = %q, want a-b-c", got)
	}
	if got := wrapped(","); got != "" {
		t.Fatalf("wrapped with no parts = %q, want empty", got)
	}
	if !strings.Contains(r.batches(t)[0], "<[]string>:[") {
		t.Errorf("variadic arguments should be logged as one slice:\n%s", r.log(t))
	}
}

func TestWrapFunc_ErrorResult(t *testing.T) {
	r := newTestRecorder(t)
	wrapped := WrapFunc(r.Recorder, lookup)

	v, err := wrapped(context.Background(), "k")
	if err != nil || v != "v:k" {
		t.Fatalf("wrapped(k) = (%q, %v)", v, err)
	}
	_, err = wrapped(context.Background(), "")
	if err == nil || err.Error() != "empty key" {
		t.Fatalf("wrapped(\"\") error = %v, want empty key", err)
	}

	batches := r.batches(t)
	if len(batches) != 4 {
		t.Fatalf("expected 4 records, got %d", len(batches))
	}
	if !strings.Contains(batches[1], "out->") {
		t.Errorf("first call should exit normally:\n%s", batches[1])
	}
	if !strings.Contains(batches[3], "  <2>:exception:\n") || !strings.Contains(batches[3], "empty key") {
		t.Errorf("second call should record the error:\n%s", batches[3])
	}
}

func TestWrapFunc_ContextCancellationPassesThrough(t *testing.T) {
	r := newTestRecorder(t)
	wrapped := WrapFunc(r.Recorder, lookup)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := wrapped(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestWrapFunc_Panic(t *testing.T) {
	r := newTestRecorder(t)
	wrapped := WrapFunc(r.Recorder, func(n int) int {
		if n < 0 {
			panic(fmt.Sprintf("negative: %d", n))
		}
		return n
	})

	defer func() {
		if p := recover(); p != "negative: -1" {
			t.Errorf("recovered %v, want the original panic value", p)
		}
		batches := r.batches(t)
		if len(batches) != 2 || !strings.Contains(batches[1], "  <3>:panic string\n") {
			t.Errorf("expected panic exception record:\n%s", r.log(t))
		}
	}()
	wrapped(-1)
}

func TestWrapFunc_NilFunc(t *testing.T) {
	r := newTestRecorder(t)
	var fn func()
	if got := WrapFunc(r.Recorder, fn); got != nil {
		t.Error("wrapping a nil func should return nil")
	}
}

func TestWrapFunc_NotAFunc(t *testing.T) {
	r := newTestRecorder(t)
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrNotAFunc) {
			t.Errorf("recovered %v, want ErrNotAFunc", err)
		}
	}()
	WrapFunc(r.Recorder, 42)
}

func TestWrapFunc_NoResults(t *testing.T) {
	r := newTestRecorder(t)
	called := false
	wrapped := WrapFunc(r.Recorder, func() { called = true })
	wrapped()

	if !called {
		t.Fatal("wrapped func not called")
	}
	exit := r.batches(t)[1]
	if !strings.HasSuffix(exit, "  <2>:rv-->") {
		t.Errorf("exit of a func without results should end at rv-->:\n%q", exit)
	}
}
