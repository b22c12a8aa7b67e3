package render

import (
	"context"
	"encoding"
	"os"
	"reflect"
	"runtime"
	"runtime/debug"
)

// Classification is the structural category of a value.
type Classification uint8

const (
	// Primitive values render as a single literal: booleans, numbers,
	// strings, byte slices and types with a canonical text form.
	Primitive Classification = iota
	// Callable values are funcs.
	Callable
	// OrderedSequence values are slices and arrays.
	OrderedSequence
	// KeyValueContainer values are maps.
	KeyValueContainer
	// SetLike values are maps with empty-struct values.
	SetLike
	// CompositeRecord values are structs and type objects.
	CompositeRecord
	// Descriptor values describe a member: reflect.StructField, reflect.Method.
	Descriptor
	// ModuleLike values describe a module: debug.Module, debug.BuildInfo.
	ModuleLike
	// CodeLike values are runtime function symbols.
	CodeLike
	// Opaque values are handles rendered as placeholders.
	Opaque
)

var classNames = [...]string{
	Primitive:         "primitive",
	Callable:          "callable",
	OrderedSequence:   "sequence",
	KeyValueContainer: "mapping",
	SetLike:           "set",
	CompositeRecord:   "record",
	Descriptor:        "descriptor",
	ModuleLike:        "module",
	CodeLike:          "code",
	Opaque:            "opaque",
}

func (c Classification) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// maxPointerChain bounds how many pointer levels Classify follows; recursive
// pointer types such as `type P *P` never bottom out.
const maxPointerChain = 16

var (
	bytesType         = reflect.TypeFor[[]byte]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	contextType       = reflect.TypeFor[context.Context]()
	reflectTypeType   = reflect.TypeFor[reflect.Type]()
	runtimeFuncType   = reflect.TypeFor[runtime.Func]()
	structFieldType   = reflect.TypeFor[reflect.StructField]()
	methodType        = reflect.TypeFor[reflect.Method]()
	moduleType        = reflect.TypeFor[debug.Module]()
	buildInfoType     = reflect.TypeFor[debug.BuildInfo]()
)

// handleTypes are structs that stand for an external resource; their
// fields are implementation detail.
var handleTypes = map[reflect.Type]string{
	reflect.TypeFor[os.File]():        "file",
	reflect.TypeFor[runtime.Frame]():  "frame",
	reflect.TypeFor[runtime.Frames](): "traceback",
}

type rule struct {
	class Classification
	match func(t reflect.Type) bool
}

// rules is evaluated in order; the first match wins. The order is the
// tie-break when a type has more than one structural capability.
var rules = []rule{
	{Primitive, isPrimitive},
	{Callable, func(t reflect.Type) bool { return t.Kind() == reflect.Func }},
	{KeyValueContainer, func(t reflect.Type) bool { return t.Kind() == reflect.Map && !isEmptyStruct(t.Elem()) }},
	{OrderedSequence, func(t reflect.Type) bool { return t.Kind() == reflect.Slice || t.Kind() == reflect.Array }},
	{SetLike, func(t reflect.Type) bool { return t.Kind() == reflect.Map && isEmptyStruct(t.Elem()) }},
	{CodeLike, func(t reflect.Type) bool { return t == runtimeFuncType }},
	{Descriptor, func(t reflect.Type) bool { return t == structFieldType || t == methodType }},
	{ModuleLike, func(t reflect.Type) bool { return t == moduleType || t == buildInfoType }},
	{CompositeRecord, isRecord},
	{Opaque, isOpaque},
}

// Classify maps a runtime type to its classification. It inspects only the
// type, following pointer types to what they point to. A nil type (the type
// of a nil interface) is Primitive; types no rule recognizes are
// CompositeRecord.
func Classify(t reflect.Type) Classification {
	if t == nil {
		return Primitive
	}
	for range maxPointerChain {
		for _, r := range rules {
			if r.match(t) {
				return r.class
			}
		}
		if t.Kind() != reflect.Pointer {
			return CompositeRecord
		}
		t = t.Elem()
	}
	return Opaque
}

// ClassifyValue classifies the dynamic type of v, looking through
// interfaces.
func ClassifyValue(v reflect.Value) Classification {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Primitive
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return Primitive
	}
	return Classify(v.Type())
}

func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && t.ConvertibleTo(bytesType) {
			return true
		}
	}
	return t.Implements(textMarshalerType) && !t.Implements(reflectTypeType)
}

func isRecord(t reflect.Type) bool {
	if t.Implements(reflectTypeType) {
		return true
	}
	return t.Kind() == reflect.Struct && !isHandle(t)
}

func isOpaque(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return isHandle(t)
}

func isHandle(t reflect.Type) bool {
	if _, ok := handleTypes[t]; ok {
		return true
	}
	return t.Implements(contextType)
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
