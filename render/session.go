package render

import (
	"reflect"

	"github.com/jonwraymond/probe/coderender"
)

// Render renders v in a fresh session.
func Render(v any, opts Options) *Fragment {
	return NewSession(opts).Render(v)
}

// RenderValue renders a reflect.Value in a fresh session.
func RenderValue(v reflect.Value, opts Options) *Fragment {
	return NewSession(opts).RenderValue(v)
}

// Session holds the options and code renderer of a render, and the
// identities visited by the render in progress. Every Render starts with an
// empty visited set, so one top-level value never affects the next.
//
// A Session is not safe for concurrent use.
type Session struct {
	opts    Options
	visited *Visited
	coder   coderender.Renderer
}

// NewSession creates a session. Negative MaxDepth and DeepLevel are treated
// as zero.
func NewSession(opts Options) *Session {
	opts.MaxDepth = max(opts.MaxDepth, 0)
	opts.DeepLevel = max(opts.DeepLevel, 0)
	coder := opts.CodeRenderer
	if coder == nil {
		coder = coderender.Default()
	}
	return &Session{opts: opts, visited: NewVisited(), coder: coder}
}

// Render renders v starting at depth 0.
func (s *Session) Render(v any) *Fragment {
	return s.RenderValue(reflect.ValueOf(v))
}

// RenderValue renders v starting at depth 0.
func (s *Session) RenderValue(v reflect.Value) *Fragment {
	s.visited = NewVisited()
	return s.render(v, 0)
}

// Visited returns the identities visited by the latest render.
func (s *Session) Visited() *Visited {
	return s.visited
}
