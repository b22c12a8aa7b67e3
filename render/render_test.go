package render

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/probe/coderender"
)

type secretive struct {
	Public  int
	private string
}

type greeter struct {
	Name string
}

func (greeter) Hello(name string) string { return "hello " + name }

type node struct {
	Value int
	Next  *node
}

type boom struct{}

func (boom) MarshalText() ([]byte, error) { panic("boom") }

type badText struct{}

func (badText) MarshalText() ([]byte, error) { return nil, errors.New("bad text") }

// stubCoder is a coderender.Renderer that records its calls.
type stubCoder struct {
	calls int
	text  string
	panic bool
}

func (s *stubCoder) RenderCode(reflect.Value, int, coderender.Flags) string {
	s.calls++
	if s.panic {
		panic("no code")
	}
	return s.text
}

func literalOf(t *testing.T, f *Fragment) string {
	t.Helper()
	if len(f.Head) < 2 {
		t.Fatalf("expected a leaf, got head %+v", f.Head)
	}
	return f.Head[1].Text
}

func TestRender_NestedSequence(t *testing.T) {
	f := Render([]any{1, []any{2, 3}}, DefaultOptions())

	if f.Class != OrderedSequence {
		t.Fatalf("Class = %v, want sequence", f.Class)
	}
	if f.Head[0].Text != "<[]interface {}>" {
		t.Errorf("label = %q", f.Head[0].Text)
	}
	if f.Open.Text != "[" || f.Close.Text != "]" {
		t.Errorf("braces = %q %q", f.Open.Text, f.Close.Text)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(f.Entries))
	}
	if got := literalOf(t, f.Entries[0].Value); got != "1" {
		t.Errorf("first entry = %q, want 1", got)
	}
	inner := f.Entries[1].Value
	if inner.Class != OrderedSequence || len(inner.Entries) != 2 {
		t.Fatalf("inner = %+v", inner)
	}
	if got := literalOf(t, inner.Entries[1].Value); got != "3" {
		t.Errorf("inner second entry = %q, want 3", got)
	}
}

func TestRender_MapSortedKeys(t *testing.T) {
	f := Render(map[string]int{"b": 2, "a": 1}, DefaultOptions())

	if f.Class != KeyValueContainer {
		t.Fatalf("Class = %v, want mapping", f.Class)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(f.Entries))
	}
	for i, want := range []string{"a", "b"} {
		e := f.Entries[i]
		if e.Name.Tag != TagKey || e.Name.Text != want {
			t.Errorf("entry %d name = %+v, want key %q", i, e.Name, want)
		}
	}
	if got := literalOf(t, f.Entries[1].Value); got != "2" {
		t.Errorf("b = %q, want 2", got)
	}
}

func TestRender_IntKeysSortNumerically(t *testing.T) {
	f := Render(map[int]string{10: "x", 9: "y", -1: "z"}, DefaultOptions())
	var names []string
	for _, e := range f.Entries {
		names = append(names, e.Name.Text)
	}
	if got := strings.Join(names, ","); got != "-1,9,10" {
		t.Errorf("key order = %s", got)
	}
}

func TestRender_Set(t *testing.T) {
	f := Render(map[string]struct{}{"b": {}, "a": {}}, DefaultOptions())

	if f.Class != SetLike {
		t.Fatalf("Class = %v, want set", f.Class)
	}
	if f.Open.Text != "{" || f.Close.Text != "}" {
		t.Errorf("braces = %q %q", f.Open.Text, f.Close.Text)
	}
	if len(f.Entries) != 2 || literalOf(t, f.Entries[0].Value) != `"a"` {
		t.Errorf("entries = %+v", f.Entries)
	}
}

func TestRender_ArrayBraces(t *testing.T) {
	f := Render([2]int{1, 2}, DefaultOptions())
	if f.Open.Text != "(" || f.Close.Text != ")" {
		t.Errorf("braces = %q %q", f.Open.Text, f.Close.Text)
	}
}

func TestRender_SelfReferentialSlice(t *testing.T) {
	c := make([]any, 1)
	c[0] = c

	f := Render(c, DefaultOptions())

	if n := f.Count(TagRepeated); n != 1 {
		t.Fatalf("expected 1 repeated marker, got %d", n)
	}
	tag, ok := f.Entries[0].Value.Marker()
	if !ok || tag != TagRepeated {
		t.Errorf("entry marker = %v %v, want repeated", tag, ok)
	}
}

func TestRender_SelfReferentialPointer(t *testing.T) {
	n := &node{Value: 1}
	n.Next = n

	f := Render(n, DefaultOptions())

	if f.Class != CompositeRecord {
		t.Fatalf("Class = %v, want record", f.Class)
	}
	if n := f.Count(TagRepeated); n != 1 {
		t.Errorf("expected 1 repeated marker, got %d", n)
	}
}

func TestRender_SelfReferentialMap(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	m["ptr"] = &m

	f := Render(m, DefaultOptions())
	if n := f.Count(TagRepeated); n != 2 {
		t.Errorf("expected 2 repeated markers, got %d", n)
	}
}

func TestRender_SharedValueRepeated(t *testing.T) {
	shared := []int{1}
	f := Render([]any{shared, shared}, DefaultOptions())

	if f.Entries[0].Value.Count(TagRepeated) != 0 {
		t.Error("first occurrence should render in full")
	}
	if tag, _ := f.Entries[1].Value.Marker(); tag != TagRepeated {
		t.Error("second occurrence should be a repeated marker")
	}
}

func TestRender_ValuesWithoutIdentityNeverRepeat(t *testing.T) {
	v := []any{1, 1, "x", "x", greeter{}, greeter{}, []int{}, []int{}}
	f := Render(v, DefaultOptions())
	if n := f.Count(TagRepeated); n != 0 {
		t.Errorf("expected no repeated markers, got %d", n)
	}
}

func TestRender_MaxDepthZero(t *testing.T) {
	f := Render([]int{1}, Options{MaxDepth: 0})

	if f.Class != OrderedSequence || len(f.Entries) != 1 {
		t.Fatalf("unexpected fragment %+v", f)
	}
	tag, ok := f.Entries[0].Value.Marker()
	if !ok || tag != TagTruncation {
		t.Errorf("child marker = %v %v, want truncation", tag, ok)
	}
}

func TestRender_PrimitiveAtMaxDepthZero(t *testing.T) {
	f := Render(42, Options{MaxDepth: 0})
	if got := literalOf(t, f); got != "42" {
		t.Errorf("literal = %q, want 42", got)
	}
}

func TestRender_NegativeMaxDepthClamps(t *testing.T) {
	got := Render([]int{1}, Options{MaxDepth: -5})
	want := Render([]int{1}, Options{MaxDepth: 0})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("negative depth = %+v, want %+v", got, want)
	}
}

func TestRender_TruncationMonotonic(t *testing.T) {
	v := []any{[]any{[]any{[]any{1}}}, []any{2}}

	prev := -1
	for depth := 6; depth >= 0; depth-- {
		n := Render(v, Options{MaxDepth: depth}).Count(TagTruncation)
		if prev >= 0 && n < prev {
			t.Errorf("depth %d: %d truncations, fewer than at depth %d (%d)", depth, n, depth+1, prev)
		}
		prev = n
	}
	if n := Render(v, Options{MaxDepth: 4}).Count(TagTruncation); n != 0 {
		t.Errorf("expected no truncation at depth 4, got %d", n)
	}
}

func TestRender_Idempotent(t *testing.T) {
	v := map[string]any{
		"list":    []int{1, 2, 3},
		"greeter": greeter{Name: "g"},
		"nested":  map[int]bool{1: true, 2: false},
		"when":    time.Duration(1500) * time.Millisecond,
	}
	first := Render(v, DefaultOptions())
	second := Render(v, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Error("rendering the same value twice should produce equal trees")
	}
}

func TestRender_Literals(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 42, "42"},
		{"negative", int8(-3), "-3"},
		{"uint", uint16(7), "7"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
		{"string", "a\"b", `"a\"b"`},
		{"bytes", []byte("hi"), `"hi"`},
		{"nil bytes", []byte(nil), "nil"},
		{"complex", complex(1, 2), "(1+2i)"},
		{"duration", time.Second, "1000000000 (1s)"},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
		{"nil", nil, "nil"},
		{"nil pointer", (*int)(nil), "nil"},
		{"pointer", func() *int { i := 5; return &i }(), "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Render(tt.in, DefaultOptions())
			if got := literalOf(t, f); got != tt.want {
				t.Errorf("literal = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_NilContainer(t *testing.T) {
	f := Render(map[string]int(nil), DefaultOptions())
	if f.Class != KeyValueContainer {
		t.Errorf("Class = %v, want mapping", f.Class)
	}
	if got := literalOf(t, f); got != "nil" {
		t.Errorf("literal = %q, want nil", got)
	}
}

func TestRender_PanickingValueBecomesError(t *testing.T) {
	f := Render([]any{1, boom{}, 3}, DefaultOptions())

	if len(f.Entries) != 3 {
		t.Fatalf("siblings should still render, got %d entries", len(f.Entries))
	}
	bad := f.Entries[1].Value
	tag, ok := bad.Marker()
	if !ok || tag != TagError {
		t.Fatalf("marker = %v %v, want error", tag, ok)
	}
	if !strings.Contains(bad.Head[len(bad.Head)-1].Text, "exception during render: boom") {
		t.Errorf("error text = %q", bad.Head[len(bad.Head)-1].Text)
	}
	if got := literalOf(t, f.Entries[2].Value); got != "3" {
		t.Errorf("third entry = %q", got)
	}
}

func TestRender_MarshalErrorBecomesError(t *testing.T) {
	f := Render(badText{}, DefaultOptions())
	if tag, _ := f.Marker(); tag != TagError {
		t.Fatalf("expected error marker, got %+v", f.Head)
	}
	if !strings.Contains(f.Head[1].Text, "bad text") {
		t.Errorf("error text = %q", f.Head[1].Text)
	}
}

func TestRender_UnexportedFields(t *testing.T) {
	v := secretive{Public: 1, private: "x"}

	f := Render(v, DefaultOptions())
	if len(f.Entries) != 1 || f.Entries[0].Name.Text != "Public" {
		t.Errorf("default entries = %+v", f.Entries)
	}
	if f.Open.Tag != TagDivider || f.Open.Text != dividerText {
		t.Errorf("record open = %+v", f.Open)
	}

	opts := DefaultOptions()
	opts.RevealInternal = true
	f = Render(v, opts)
	if len(f.Entries) != 2 {
		t.Fatalf("revealed entries = %+v", f.Entries)
	}
	if got := literalOf(t, f.Entries[1].Value); got != `"x"` {
		t.Errorf("private = %q", got)
	}
}

func TestRender_ReservedKeys(t *testing.T) {
	v := map[string]int{"_hidden": 1, "shown": 2}

	if f := Render(v, DefaultOptions()); len(f.Entries) != 1 || f.Entries[0].Name.Text != "shown" {
		t.Errorf("default entries = %+v", f.Entries)
	}

	opts := DefaultOptions()
	opts.RevealInternal = true
	if f := Render(v, opts); len(f.Entries) != 2 {
		t.Errorf("revealed entries = %+v", f.Entries)
	}
}

func TestRender_Function(t *testing.T) {
	tests := []struct {
		fn   any
		want string
	}{
		{strings.Repeat, "strings.Repeat(string, int) string function"},
		{fmt.Sprintf, "fmt.Sprintf(string, ...interface {}) string function"},
		{strings.Cut, "strings.Cut(string, string) (string, string, bool) function"},
	}
	for _, tt := range tests {
		f := Render(tt.fn, DefaultOptions())
		if f.Class != Callable {
			t.Errorf("Class = %v, want callable", f.Class)
		}
		if got := literalOf(t, f); got != tt.want {
			t.Errorf("signature = %q, want %q", got, tt.want)
		}
	}
}

func TestRender_FunctionIntrospection(t *testing.T) {
	coder := &stubCoder{text: "func() {}"}
	opts := DefaultOptions()
	opts.Introspection = coderender.Source
	opts.CodeRenderer = coder

	fn := func() {}
	if f := Render(fn, opts); f.Code != "func() {}" {
		t.Errorf("Code = %q", f.Code)
	}
	if coder.calls != 1 {
		t.Errorf("expected 1 code render, got %d", coder.calls)
	}

	f := Render([]any{[]any{fn}}, opts)
	deep := f.Entries[0].Value.Entries[0].Value
	if deep.Code != "" || coder.calls != 1 {
		t.Errorf("functions at depth 2 should not be introspected, got %q", deep.Code)
	}

	opts.Introspection = 0
	if f := Render(fn, opts); f.Code != "" {
		t.Errorf("no introspection flags should give no code, got %q", f.Code)
	}
}

func TestRender_PanickingCodeRenderer(t *testing.T) {
	opts := DefaultOptions()
	opts.Introspection = coderender.Disasm
	opts.CodeRenderer = &stubCoder{panic: true}

	f := Render(strings.Repeat, opts)
	if tag, _ := f.Marker(); tag != TagError {
		t.Errorf("expected error marker, got %+v", f.Head)
	}
}

func TestRender_Methods(t *testing.T) {
	f := Render(greeter{Name: "g"}, DefaultOptions())

	if len(f.Entries) != 2 {
		t.Fatalf("expected field and method, got %+v", f.Entries)
	}
	m := f.Entries[1]
	if m.Name.Text != "Hello" {
		t.Errorf("method name = %q", m.Name.Text)
	}
	if m.Value.Head[0].Text != "<func(string) string>" {
		t.Errorf("method label = %q", m.Value.Head[0].Text)
	}
	if !strings.HasSuffix(literalOf(t, m.Value), "(string) string method") {
		t.Errorf("method text = %q", literalOf(t, m.Value))
	}

	opts := DefaultOptions()
	opts.DeepLevel = 0
	if f := Render(greeter{}, opts); len(f.Entries) != 1 {
		t.Errorf("DeepLevel 0 should hide methods, got %+v", f.Entries)
	}
}

func TestRender_TypeObject(t *testing.T) {
	f := Render(reflect.TypeFor[greeter](), DefaultOptions())

	if f.Class != CompositeRecord {
		t.Fatalf("Class = %v, want record", f.Class)
	}
	if f.Head[1].Text != "render.greeter (struct)" {
		t.Errorf("head = %q", f.Head[1].Text)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("expected field and method, got %+v", f.Entries)
	}
	if got := literalOf(t, f.Entries[0].Value); got != "field string" {
		t.Errorf("field = %q", got)
	}
	if got := literalOf(t, f.Entries[1].Value); got != "method func(string) string" {
		t.Errorf("method = %q", got)
	}

	nested := Render([]any{[]any{reflect.TypeFor[greeter]()}}, DefaultOptions())
	obj := nested.Entries[0].Value.Entries[0].Value
	if got := literalOf(t, obj.Entries[0].Value); got != "string" {
		t.Errorf("nested type members should omit kind, got %q", got)
	}
}

func TestRender_Descriptor(t *testing.T) {
	sf, _ := reflect.TypeFor[greeter]().FieldByName("Name")
	f := Render(sf, DefaultOptions())
	if f.Class != Descriptor {
		t.Fatalf("Class = %v, want descriptor", f.Class)
	}
	if got := literalOf(t, f); got != "field Name string" {
		t.Errorf("descriptor = %q", got)
	}
}

func TestRender_Opaque(t *testing.T) {
	f := Render(make(chan int, 3), DefaultOptions())
	if f.Class != Opaque {
		t.Fatalf("Class = %v, want opaque", f.Class)
	}
	if got := literalOf(t, f); got != "chan int len=0 cap=3" {
		t.Errorf("placeholder = %q", got)
	}
}

func TestRenderValue(t *testing.T) {
	f := RenderValue(reflect.ValueOf(map[string]int{"a": 1}), DefaultOptions())
	if f.Class != KeyValueContainer || len(f.Entries) != 1 {
		t.Errorf("unexpected fragment %+v", f)
	}
}

func TestOptions_Validate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options: %v", err)
	}
	if err := (Options{MaxDepth: -1}).Validate(); !errors.Is(err, ErrNegativeDepth) {
		t.Errorf("expected ErrNegativeDepth, got %v", err)
	}
	if err := (Options{DeepLevel: -1}).Validate(); !errors.Is(err, ErrNegativeDeepLevel) {
		t.Errorf("expected ErrNegativeDeepLevel, got %v", err)
	}
}

func TestSession_RendersAreIndependent(t *testing.T) {
	s := NewSession(DefaultOptions())
	v := []int{1, 2}

	if f := s.Render(v); f.Count(TagRepeated) != 0 {
		t.Fatalf("first render should be complete, got %+v", f)
	}
	if s.Visited().Len() != 1 {
		t.Errorf("Visited().Len() = %d, want 1", s.Visited().Len())
	}
	if f := s.Render(v); f.Count(TagRepeated) != 0 {
		t.Errorf("second render should not see the first render's values, got %+v", f)
	}
	if s.Visited().Len() != 1 {
		t.Errorf("Visited().Len() after second render = %d, want 1", s.Visited().Len())
	}
}
