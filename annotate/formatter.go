package annotate

import (
	"io"
	"strings"

	"github.com/jonwraymond/probe/render"
)

const (
	// DefaultColumnWidth is the width names are padded to.
	DefaultColumnWidth = 8
	// DefaultIndentWidth is the number of spaces per nesting level.
	DefaultIndentWidth = 4
)

// Config configures a Formatter.
type Config struct {
	// Styler decorates segments. Default: Plain
	Styler Styler

	// ColumnWidth is the width key and member names are padded to.
	// Default: 8
	ColumnWidth int

	// IndentWidth is the number of spaces per nesting level.
	// Default: 4
	IndentWidth int
}

// DefaultConfig returns the plain-text layout.
func DefaultConfig() Config {
	return Config{
		Styler:      Plain{},
		ColumnWidth: DefaultColumnWidth,
		IndentWidth: DefaultIndentWidth,
	}
}

// Formatter writes fragment trees as text. It is immutable and safe for
// concurrent use.
type Formatter struct {
	styler Styler
	column int
	indent int
}

// New creates a Formatter. Zero or negative widths take their defaults.
func New(cfg Config) *Formatter {
	f := &Formatter{styler: cfg.Styler, column: cfg.ColumnWidth, indent: cfg.IndentWidth}
	if f.styler == nil {
		f.styler = Plain{}
	}
	if f.column <= 0 {
		f.column = DefaultColumnWidth
	}
	if f.indent <= 0 {
		f.indent = DefaultIndentWidth
	}
	return f
}

// Format returns the text of frag without a trailing newline.
func (f *Formatter) Format(frag *render.Fragment) string {
	var b strings.Builder
	f.write(&b, frag, 0, render.Segment{})
	return strings.TrimRight(b.String(), "\n")
}

// Fprint writes the text of frag followed by a newline.
func (f *Formatter) Fprint(w io.Writer, frag *render.Fragment) error {
	_, err := io.WriteString(w, f.Format(frag)+"\n")
	return err
}

func (f *Formatter) write(b *strings.Builder, frag *render.Fragment, level int, name render.Segment) {
	if frag == nil {
		return
	}
	pad := strings.Repeat(" ", level*f.indent)
	b.WriteString(pad)
	if !name.IsZero() {
		b.WriteString(f.name(name))
	}
	f.head(b, frag.Head)

	if frag.Open.IsZero() {
		b.WriteByte('\n')
		f.code(b, frag.Code, level+1)
		return
	}

	if len(frag.Head) > 0 {
		b.WriteByte(':')
	}
	b.WriteString(f.styler.Style(frag.Open.Tag, frag.Open.Text))
	if len(frag.Entries) == 0 && frag.Open.Tag == render.TagBrace {
		b.WriteString(f.styler.Style(frag.Close.Tag, frag.Close.Text))
		b.WriteByte('\n')
		return
	}
	b.WriteByte('\n')
	for _, e := range frag.Entries {
		f.write(b, e.Value, level+1, e.Name)
	}
	b.WriteString(pad)
	b.WriteString(f.styler.Style(frag.Close.Tag, frag.Close.Text))
	b.WriteByte('\n')
}

func (f *Formatter) head(b *strings.Builder, head []render.Segment) {
	for i, s := range head {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(f.styler.Style(s.Tag, s.Text))
	}
}

// name pads before styling so escape sequences do not count towards the
// column.
func (f *Formatter) name(s render.Segment) string {
	text := f.styler.Style(s.Tag, s.Text)
	if n := f.column - len([]rune(s.Text)); n > 0 {
		text += strings.Repeat(" ", n)
	}
	return text + " => "
}

func (f *Formatter) code(b *strings.Builder, code string, level int) {
	code = strings.TrimRight(code, "\n")
	if code == "" {
		return
	}
	pad := strings.Repeat(" ", level*f.indent)
	for line := range strings.SplitSeq(code, "\n") {
		b.WriteString(pad)
		b.WriteString(f.styler.Style(render.TagCode, line))
		b.WriteByte('\n')
	}
}
