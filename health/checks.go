package health

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/jonwraymond/probe/coderender"
	"github.com/jonwraymond/probe/logwriter"
	"github.com/jonwraymond/probe/resilience"
)

// ErrSourceUnavailable indicates code introspection cannot read source files.
var ErrSourceUnavailable = errors.New("health: source unavailable")

// SinkChecker checks that a log writer can append to its file.
type SinkChecker struct {
	w *logwriter.Writer
}

// NewSinkChecker returns a checker for w.
func NewSinkChecker(w *logwriter.Writer) *SinkChecker {
	return &SinkChecker{w: w}
}

// Name returns "log".
func (c *SinkChecker) Name() string { return "log" }

// Check reports unhealthy when the breaker is open or the file cannot be
// opened, and degraded while the breaker is half-open.
func (c *SinkChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("check cancelled", err)
	}
	state := c.w.CircuitState()
	details := map[string]any{
		"path":    c.w.Path(),
		"circuit": state.String(),
	}

	if state == resilience.StateOpen {
		return Unhealthy("circuit open", logwriter.ErrSinkUnavailable).WithDetails(details)
	}
	if err := c.w.Ping(); err != nil {
		return Unhealthy("not writable", err).WithDetails(details)
	}
	if state == resilience.StateHalfOpen {
		return Degraded("circuit half-open", nil).WithDetails(details)
	}
	return Healthy("writable").WithDetails(details)
}

// SourceChecker checks that a code renderer can show source for a function
// compiled into this binary. Binaries moved away from their source tree
// still render values, without the code views.
type SourceChecker struct {
	r coderender.Renderer
}

// NewSourceChecker returns a checker for r.
func NewSourceChecker(r coderender.Renderer) *SourceChecker {
	return &SourceChecker{r: r}
}

// Name returns "source".
func (c *SourceChecker) Name() string { return "source" }

// Check renders its own target function and looks for the declaration.
func (c *SourceChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("check cancelled", err)
	}
	text := c.r.RenderCode(reflect.ValueOf(sourceTarget), 0, coderender.Source)
	if !strings.Contains(text, "func sourceTarget(") {
		first, _, _ := strings.Cut(text, "\n")
		return Degraded("code views unavailable", ErrSourceUnavailable).
			WithDetails(map[string]any{"reason": first})
	}
	return Healthy("source readable")
}

func sourceTarget() string { return "probe" }
