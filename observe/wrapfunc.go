package observe

import (
	"context"
	"fmt"
	"reflect"
)

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
)

// WrapFunc returns a function with fn's exact signature that records every
// call through r. The call is named after fn's symbol. When the first
// parameter is a context.Context it carries the span; when the last result
// is an error a non-nil value is recorded as the call's failure.
//
// WrapFunc panics with ErrNotAFunc if F is not a func type. A nil fn is
// returned unchanged.
func WrapFunc[F any](r *Recorder, fn F) F {
	t := reflect.TypeFor[F]()
	if t.Kind() != reflect.Func {
		panic(fmt.Errorf("%w: %s", ErrNotAFunc, t))
	}
	v := reflect.ValueOf(&fn).Elem()
	if v.IsNil() {
		return fn
	}

	meta := MetaFor(fn)
	errIdx := -1
	if n := t.NumOut(); n > 0 && t.Out(n-1) == errorType {
		errIdx = n - 1
	}

	wrapped := reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		ctx := context.Background()
		if t.NumIn() > 0 && t.In(0) == contextType && !in[0].IsNil() {
			ctx = in[0].Interface().(context.Context)
		}
		args := make([]any, len(in))
		for i, a := range in {
			args[i] = a.Interface()
		}

		var out []reflect.Value
		_, _ = r.observe(ctx, meta, args, nil, func(context.Context) ([]any, error) {
			if t.IsVariadic() {
				out = v.CallSlice(in)
			} else {
				out = v.Call(in)
			}
			return splitResults(out, errIdx)
		})
		return out
	})
	return wrapped.Interface().(F)
}

// splitResults separates a trailing non-nil error from the other results.
func splitResults(out []reflect.Value, errIdx int) ([]any, error) {
	results := make([]any, 0, len(out))
	var err error
	for i, o := range out {
		if i == errIdx {
			if !o.IsNil() {
				err = o.Interface().(error)
			}
			continue
		}
		results = append(results, o.Interface())
	}
	return results, err
}
