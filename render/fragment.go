package render

// Tag is the semantic category of a rendered segment.
type Tag uint8

const (
	// TagKind labels a value's type, e.g. "<int>".
	TagKind Tag = iota
	// TagLiteral is a value's textual representation.
	TagLiteral
	// TagKey names a key in a key-value container.
	TagKey
	// TagMember names a field, method or member of a record.
	TagMember
	// TagBrace opens or closes a container.
	TagBrace
	// TagDivider opens or closes a record.
	TagDivider
	// TagCode is code renderer output.
	TagCode
	// TagRepeated marks a value already rendered in this session.
	TagRepeated
	// TagError marks a failure while rendering a value.
	TagError
	// TagTruncation marks a value cut off by the depth bound.
	TagTruncation
)

var tagNames = [...]string{
	TagKind:       "kind",
	TagLiteral:    "literal",
	TagKey:        "key",
	TagMember:     "member",
	TagBrace:      "brace",
	TagDivider:    "divider",
	TagCode:       "code",
	TagRepeated:   "repeated",
	TagError:      "error",
	TagTruncation: "truncation",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Segment is one tagged piece of text.
type Segment struct {
	Tag  Tag
	Text string
}

// IsZero reports whether the segment carries no text.
func (s Segment) IsZero() bool { return s.Text == "" }

// Entry is one child of a fragment. Name is zero for positional children.
type Entry struct {
	Name  Segment
	Value *Fragment
}

// Fragment is an immutable node of rendered output.
//
// Head holds the segments of the node's first line. Containers and records
// set Open and Close and list their children in Entries. Code holds opaque
// multi-line text from a code renderer.
type Fragment struct {
	// Class is the classification of the rendered value. It is meaningless
	// for marker fragments (see Marker).
	Class   Classification
	Head    []Segment
	Open    Segment
	Entries []Entry
	Close   Segment
	Code    string
}

// Marker returns the tag of a truncation, repeated or error marker in the
// fragment's head, or false if the fragment is a regular node.
func (f *Fragment) Marker() (Tag, bool) {
	for _, s := range f.Head {
		switch s.Tag {
		case TagTruncation, TagRepeated, TagError:
			return s.Tag, true
		}
	}
	return 0, false
}

// Walk visits f and its descendants depth-first until fn returns false.
func (f *Fragment) Walk(fn func(*Fragment) bool) bool {
	if f == nil {
		return true
	}
	if !fn(f) {
		return false
	}
	for _, e := range f.Entries {
		if !e.Value.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of segments tagged tag in the tree.
func (f *Fragment) Count(tag Tag) int {
	n := 0
	f.Walk(func(fr *Fragment) bool {
		for _, s := range fr.Head {
			if s.Tag == tag {
				n++
			}
		}
		for _, e := range fr.Entries {
			if e.Name.Tag == tag && !e.Name.IsZero() {
				n++
			}
		}
		if fr.Open.Tag == tag && !fr.Open.IsZero() {
			n++
		}
		if fr.Close.Tag == tag && !fr.Close.IsZero() {
			n++
		}
		return true
	})
	return n
}

func truncated() *Fragment {
	return &Fragment{Head: []Segment{{Tag: TagTruncation, Text: "max depth"}}}
}

func repeated(label string, addr uintptr) *Fragment {
	return &Fragment{Head: []Segment{
		{Tag: TagKind, Text: label},
		{Tag: TagRepeated, Text: "repeated " + hexAddr(addr)},
	}}
}

func failed(label string, cause any) *Fragment {
	head := make([]Segment, 0, 2)
	if label != "" {
		head = append(head, Segment{Tag: TagKind, Text: label})
	}
	head = append(head, Segment{Tag: TagError, Text: "exception during render: " + causeText(cause)})
	return &Fragment{Head: head}
}

func leaf(class Classification, label, text string) *Fragment {
	return &Fragment{Class: class, Head: []Segment{
		{Tag: TagKind, Text: label},
		{Tag: TagLiteral, Text: text},
	}}
}
