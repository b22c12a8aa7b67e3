package logwriter

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Record is one entry of a batch. LogText is called once, while the batch
// is assembled.
type Record interface {
	LogText() (string, error)
}

// Text is a literal record.
type Text string

// LogText returns t.
func (t Text) LogText() (string, error) { return string(t), nil }

// RecordFunc adapts a function to Record.
type RecordFunc func() (string, error)

// LogText calls f.
func (f RecordFunc) LogText() (string, error) { return f() }

// Pair is a named value.
type Pair struct {
	Key   string
	Value string
}

// Values is a record of positional and keyword values, one per line:
// positional values as "<i>:" and keyword values as "key=". Lines after
// the first of a multi-line value are indented.
type Values struct {
	Args   []string
	Kwargs []Pair
}

// LogText formats the values.
func (v Values) LogText() (string, error) {
	var b strings.Builder
	for i, a := range v.Args {
		b.WriteString("  <")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(">:")
		writeValue(&b, a)
	}
	for _, kv := range v.Kwargs {
		b.WriteString("  ")
		b.WriteString(kv.Key)
		b.WriteByte('=')
		writeValue(&b, kv.Value)
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, s string) {
	s = Printable(strings.TrimRight(s, "\n"))
	b.WriteString(strings.ReplaceAll(s, "\n", "\n      "))
	b.WriteByte('\n')
}

// Printable returns s unchanged when every rune is printable, and its hex
// encoding otherwise. Newline, tab, carriage return and ESC count as
// printable so multi-line and coloured text is kept.
func Printable(s string) string {
	if !utf8.ValidString(s) {
		return hex.EncodeToString([]byte(s))
	}
	for _, r := range s {
		switch r {
		case '\n', '\t', '\r', '\x1b':
			continue
		}
		if !unicode.IsPrint(r) {
			return hex.EncodeToString([]byte(s))
		}
	}
	return s
}

// Ensure the record types implement Record
var (
	_ Record = Text("")
	_ Record = RecordFunc(nil)
	_ Record = Values{}
)
