package annotate

import (
	"github.com/muesli/termenv"

	"github.com/jonwraymond/probe/render"
)

// Styler decorates a segment of text according to its tag.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Style must not add or remove line breaks.
type Styler interface {
	Style(tag render.Tag, text string) string
}

// Plain is a Styler that returns text unchanged.
type Plain struct{}

// Style returns text unchanged.
func (Plain) Style(_ render.Tag, text string) string { return text }

// palette maps tags to colours; tags without an entry keep the default
// foreground.
var palette = map[render.Tag]string{
	render.TagKind:       "#818cf8",
	render.TagLiteral:    "#a3e635",
	render.TagKey:        "#facc15",
	render.TagMember:     "#38bdf8",
	render.TagCode:       "#94a3b8",
	render.TagRepeated:   "#c084fc",
	render.TagError:      "#fb7185",
	render.TagTruncation: "#f472b6",
}

// TermStyler colours segments with ANSI sequences for the given profile.
// With termenv.Ascii it degrades to plain text.
type TermStyler struct {
	profile termenv.Profile
}

// NewTermStyler creates a TermStyler for profile.
func NewTermStyler(profile termenv.Profile) *TermStyler {
	return &TermStyler{profile: profile}
}

// Style colours text by tag.
func (s *TermStyler) Style(tag render.Tag, text string) string {
	if text == "" || s.profile == termenv.Ascii {
		return text
	}
	st := s.profile.String(text)
	if hex, ok := palette[tag]; ok {
		st = st.Foreground(s.profile.Color(hex))
	}
	switch tag {
	case render.TagBrace, render.TagDivider, render.TagTruncation:
		st = st.Faint()
	case render.TagKey, render.TagError:
		st = st.Bold()
	case render.TagRepeated:
		st = st.Italic()
	}
	return st.String()
}

// Ensure the stylers implement Styler
var (
	_ Styler = Plain{}
	_ Styler = (*TermStyler)(nil)
)
