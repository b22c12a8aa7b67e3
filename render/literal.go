package render

import (
	"cmp"
	"encoding"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"strings"
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

func hexAddr(addr uintptr) string {
	return "0x" + strconv.FormatUint(uint64(addr), 16)
}

func causeText(cause any) string {
	switch c := cause.(type) {
	case error:
		return c.Error()
	case string:
		return c
	}
	return fmt.Sprint(cause)
}

func typeLabel(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	return "<" + v.Type().String() + ">"
}

// unwrap looks through interface values. A nil interface yields the zero
// Value.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// derefAll follows a pointer chain. It reports false when the chain ends in
// nil or does not bottom out.
func derefAll(v reflect.Value) (reflect.Value, bool) {
	for range maxPointerChain {
		if v.Kind() != reflect.Pointer {
			return v, true
		}
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return reflect.Value{}, false
}

// literal formats a primitive value.
func literal(v reflect.Value) (string, error) {
	for range maxPointerChain {
		if v.Kind() != reflect.Pointer {
			break
		}
		if v.IsNil() {
			return "nil", nil
		}
		if v.CanInterface() && v.Type().Implements(textMarshalerType) {
			return marshalText(v)
		}
		v = v.Elem()
	}

	if v.CanInterface() && v.Type().Implements(textMarshalerType) {
		return marshalText(v)
	}
	if s, ok := basicLiteral(v); ok {
		return s + stringerSuffix(v, s), nil
	}
	if v.CanAddr() && v.Addr().CanInterface() && v.Addr().Type().Implements(textMarshalerType) {
		return marshalText(v.Addr())
	}
	if !v.CanInterface() {
		return "(unexported)", nil
	}
	return "", fmt.Errorf("no literal form for %s", v.Type())
}

func marshalText(v reflect.Value) (string, error) {
	m, ok := v.Interface().(encoding.TextMarshaler)
	if !ok {
		return "", fmt.Errorf("%s is not a text marshaler", v.Type())
	}
	text, err := m.MarshalText()
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func basicLiteral(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Uintptr:
		return hexAddr(uintptr(v.Uint())), true
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), true
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64), true
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128), true
	case reflect.String:
		return strconv.Quote(v.String()), true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if v.IsNil() {
				return "nil", true
			}
			return fmt.Sprintf("%q", v.Bytes()), true
		}
	}
	return "", false
}

// stringerSuffix appends the String form of named types such as
// time.Duration when it differs from the plain literal.
func stringerSuffix(v reflect.Value, plain string) string {
	t := v.Type()
	if t.PkgPath() == "" || !v.CanInterface() || !t.Implements(stringerType) {
		return ""
	}
	s := v.Interface().(fmt.Stringer).String()
	if s == plain || strconv.Quote(s) == plain {
		return ""
	}
	return " (" + s + ")"
}

func funcName(fn reflect.Value) string {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return "func"
	}
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return "func"
}

// signature formats the parameter and result lists of a func type, skipping
// the first skip parameters.
func signature(t reflect.Type, skip int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := skip; i < t.NumIn(); i++ {
		if i > skip {
			b.WriteString(", ")
		}
		if t.IsVariadic() && i == t.NumIn()-1 {
			b.WriteString("..." + t.In(i).Elem().String())
			continue
		}
		b.WriteString(t.In(i).String())
	}
	b.WriteByte(')')

	switch t.NumOut() {
	case 0:
	case 1:
		b.WriteString(" " + t.Out(0).String())
	default:
		outs := make([]string, t.NumOut())
		for i := range outs {
			outs[i] = t.Out(i).String()
		}
		b.WriteString(" (" + strings.Join(outs, ", ") + ")")
	}
	return b.String()
}

// boundType is the func type of a method value: its method type without the
// receiver.
func boundType(t reflect.Type) string {
	return "func" + signature(t, 1)
}

// describe formats a reflect.StructField or reflect.Method.
func describe(v reflect.Value, withKind, withName bool) string {
	if !v.CanInterface() {
		return "descriptor " + v.FieldByName("Name").String()
	}
	var kind, name, text string
	switch d := v.Interface().(type) {
	case reflect.StructField:
		kind, name, text = "field", d.Name, d.Type.String()
		if d.Tag != "" {
			text += " `" + string(d.Tag) + "`"
		}
		if d.Anonymous {
			text += " embedded"
		}
	case reflect.Method:
		kind, name, text = "method", d.Name, boundType(d.Type)
		if !d.Func.IsValid() {
			// Interface methods carry no receiver.
			text = "func" + signature(d.Type, 0)
		}
	default:
		return "descriptor"
	}
	if withName {
		text = name + " " + text
	}
	if withKind {
		text = kind + " " + text
	}
	return text
}

// module formats a debug.Module or debug.BuildInfo.
func module(v reflect.Value) string {
	switch v.Type() {
	case moduleType:
		return "Package:" + modulePath(v)
	case buildInfoType:
		s := "Package:" + modulePath(v.FieldByName("Main"))
		if gv := v.FieldByName("GoVersion").String(); gv != "" {
			s += " (" + gv + ")"
		}
		return s
	}
	return "Package"
}

func modulePath(m reflect.Value) string {
	s := m.FieldByName("Path").String()
	if s == "" {
		s = "command-line-arguments"
	}
	if ver := m.FieldByName("Version").String(); ver != "" {
		s += "@" + ver
	}
	if r := m.FieldByName("Replace"); r.IsValid() && !r.IsNil() {
		s += " => " + modulePath(r.Elem())
	}
	return s
}

// codeLine formats a *runtime.Func symbol.
func codeLine(v reflect.Value) string {
	for range maxPointerChain {
		if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Pointer {
			break
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Pointer || v.IsNil() || !v.CanInterface() {
		return "code"
	}
	fn, ok := v.Interface().(*runtime.Func)
	if !ok {
		return "code"
	}
	file, line := fn.FileLine(fn.Entry())
	return fmt.Sprintf("code %s %s:%d", fn.Name(), file, line)
}

// placeholder formats a value classified Opaque.
func placeholder(v reflect.Value) string {
	outer := v
	for range maxPointerChain {
		if outer.Kind() != reflect.Pointer || outer.Elem().Kind() != reflect.Pointer {
			break
		}
		outer = outer.Elem()
	}
	elem, ok := derefAll(v)
	if !ok {
		return "nil"
	}

	switch elem.Kind() {
	case reflect.Chan:
		return fmt.Sprintf("%s len=%d cap=%d", elem.Type(), elem.Len(), elem.Cap())
	case reflect.UnsafePointer:
		return "unsafe.Pointer " + hexAddr(uintptr(elem.UnsafePointer()))
	}

	switch handleTypes[elem.Type()] {
	case "file":
		if outer.Kind() == reflect.Pointer && outer.CanInterface() {
			if f, ok := outer.Interface().(*os.File); ok {
				return "file " + f.Name()
			}
		}
		return "file"
	case "frame":
		return fmt.Sprintf("frame %s %s:%d",
			elem.FieldByName("Function").String(),
			elem.FieldByName("File").String(),
			elem.FieldByName("Line").Int())
	case "traceback":
		return "traceback"
	}
	if v.Type().Implements(contextType) || elem.Type().Implements(contextType) {
		return "context"
	}
	return "opaque"
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	slices.SortStableFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b reflect.Value) int {
	a, b = unwrap(a), unwrap(b)
	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() && a.Type() == b.Type() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.String:
			return strings.Compare(a.String(), b.String())
		case reflect.Bool:
			return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
		}
	}
	if c := strings.Compare(typeLabel(a), typeLabel(b)); c != 0 {
		return c
	}
	return strings.Compare(sortText(a), sortText(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sortText(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.CanInterface() {
		return fmt.Sprint(v.Interface())
	}
	return typeLabel(v)
}

// keyText is the display text of a map key. String keys are shown raw.
func keyText(k reflect.Value) string {
	k = unwrap(k)
	if !k.IsValid() {
		return "nil"
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	if Classify(k.Type()) == Primitive {
		if s, err := literal(k); err == nil {
			return s
		}
	}
	return sortText(k)
}

func isReservedKey(k reflect.Value) bool {
	k = unwrap(k)
	return k.IsValid() && k.Kind() == reflect.String && strings.HasPrefix(k.String(), ReservedPrefix)
}
