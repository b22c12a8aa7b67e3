package observe

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/probe/logwriter"
)

// Kwarg is a named argument of a traced call.
type Kwarg struct {
	Key   string
	Value any
}

// CallEntry is appended before a traced call runs.
type CallEntry struct {
	Tag    int64
	Name   string
	Args   []any
	Kwargs []Kwarg
	Sprint func(any) string
}

// LogText formats the entry as tag, "in->{{name}}", then each argument.
func (e CallEntry) LogText() (string, error) {
	args := make([]string, 0, len(e.Args)+2)
	args = append(args, tagText(e.Tag), "in->"+braced(e.Name))
	for _, a := range e.Args {
		args = append(args, sprintWith(e.Sprint, a))
	}
	var kwargs []logwriter.Pair
	for _, kw := range e.Kwargs {
		kwargs = append(kwargs, logwriter.Pair{Key: kw.Key, Value: sprintWith(e.Sprint, kw.Value)})
	}
	return logwriter.Values{Args: args, Kwargs: kwargs}.LogText()
}

// CallExit is appended after a traced call returns normally.
type CallExit struct {
	Tag     int64
	Name    string
	Results []any
	Sprint  func(any) string
}

// LogText formats the exit as tag, "out->{{name}}", "rv-->", then each
// result.
func (e CallExit) LogText() (string, error) {
	args := make([]string, 0, len(e.Results)+3)
	args = append(args, tagText(e.Tag), "out->"+braced(e.Name), "rv-->")
	for _, r := range e.Results {
		args = append(args, sprintWith(e.Sprint, r))
	}
	return logwriter.Values{Args: args}.LogText()
}

// CallException is appended after a traced call fails, either by
// returning a non-nil error or by panicking.
type CallException struct {
	Tag     int64
	Name    string
	Type    string // dynamic type of the error or panic value
	Message string
	Stack   []Frame
}

// LogText formats the failure as tag, "{{name}}", "exception:", type,
// message, followed by the stack when one was captured.
func (e CallException) LogText() (string, error) {
	args := []string{tagText(e.Tag), braced(e.Name), "exception:", e.Type, e.Message}
	if len(e.Stack) > 0 {
		lines := make([]string, len(e.Stack))
		for i, f := range e.Stack {
			lines[i] = "\t" + f.String()
		}
		args = append(args, strings.Join(lines, "\n"))
	}
	return logwriter.Values{Args: args}.LogText()
}

// failureInfo describes a returned error or a recovered panic value.
func failureInfo(err error, panicked bool, value any) (typ, msg string) {
	if !panicked {
		return fmt.Sprintf("%T", err), err.Error()
	}
	switch v := value.(type) {
	case error:
		return fmt.Sprintf("panic %T", v), v.Error()
	case string:
		return "panic string", v
	}
	return fmt.Sprintf("panic %T", value), fmt.Sprint(value)
}

func braced(name string) string { return "{{" + name + "}}" }

func tagText(tag int64) string { return fmt.Sprintf("%d", tag) }

func sprintWith(sprint func(any) string, v any) string {
	if sprint == nil {
		return fmt.Sprintf("%+v", v)
	}
	return sprint(v)
}

// Ensure the call records implement logwriter.Record
var (
	_ logwriter.Record = CallEntry{}
	_ logwriter.Record = CallExit{}
	_ logwriter.Record = CallException{}
)
