package render

import "github.com/jonwraymond/probe/coderender"

const (
	// DefaultMaxDepth is the default recursion bound.
	DefaultMaxDepth = 20
	// DefaultDeepLevel is the default depth below which methods are listed.
	DefaultDeepLevel = 2
	// ReservedPrefix marks internal map keys hidden unless RevealInternal.
	ReservedPrefix = "_"
)

// introspectionDepth is the depth below which function code and type
// member kinds are rendered.
const introspectionDepth = 2

// Options configures a render.
type Options struct {
	// MaxDepth is the deepest level rendered; deeper values become
	// truncation markers. The top-level value is at depth 0.
	MaxDepth int

	// RevealInternal includes unexported struct fields and map keys that
	// start with ReservedPrefix.
	RevealInternal bool

	// Introspection selects the code renderer views shown for functions.
	Introspection coderender.Flags

	// DeepLevel is the depth below which records list their methods.
	DeepLevel int

	// CodeRenderer renders function code. Nil means coderender.Default().
	CodeRenderer coderender.Renderer
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{
		MaxDepth:  DefaultMaxDepth,
		DeepLevel: DefaultDeepLevel,
	}
}

// Validate validates the options.
func (o Options) Validate() error {
	if o.MaxDepth < 0 {
		return ErrNegativeDepth
	}
	if o.DeepLevel < 0 {
		return ErrNegativeDeepLevel
	}
	return nil
}
