package render

import "reflect"

const dividerText = "----------------------"

// render renders v at depth. Depth is passed by value, so returning always
// restores the caller's level.
func (s *Session) render(v reflect.Value, depth int) (frag *Fragment) {
	if depth > s.opts.MaxDepth {
		return truncated()
	}

	v = unwrap(v)
	label := typeLabel(v)
	defer func() {
		if p := recover(); p != nil {
			frag = failed(label, p)
		}
	}()

	if !v.IsValid() {
		return leaf(Primitive, label, "nil")
	}

	class := Classify(v.Type())
	if class == Primitive {
		text, err := literal(v)
		if err != nil {
			return failed(label, err)
		}
		return leaf(Primitive, label, text)
	}

	if isNilRef(v) {
		return leaf(class, label, "nil")
	}
	if id, ok := IdentityOf(v); ok {
		if s.visited.Seen(id) {
			return repeated(label, id.Addr)
		}
		s.visited.Mark(id)
	}

	switch class {
	case Callable:
		return s.callable(v, label, depth)
	case CodeLike:
		return leaf(CodeLike, label, codeLine(v))
	case Opaque:
		return leaf(Opaque, label, placeholder(v))
	}

	if rt, ok := asType(v); ok {
		return s.typeObject(rt, label, depth)
	}

	elem, ok := derefAll(v)
	if !ok {
		return leaf(class, label, "nil")
	}
	if elem.Kind() == reflect.Interface {
		return s.render(elem, depth)
	}
	if elem.Kind() != v.Kind() {
		if id, ok := IdentityOf(elem); ok {
			if s.visited.Seen(id) {
				return repeated(label, id.Addr)
			}
			s.visited.Mark(id)
		}
	}

	switch class {
	case OrderedSequence:
		return s.sequence(elem, label, depth)
	case SetLike:
		return s.set(elem, label, depth)
	case KeyValueContainer:
		return s.mapping(elem, label, depth)
	case Descriptor:
		return leaf(Descriptor, label, describe(elem, true, true))
	case ModuleLike:
		return leaf(ModuleLike, label, module(elem))
	default:
		return s.record(v, elem, label, depth)
	}
}

func (s *Session) callable(v reflect.Value, label string, depth int) *Fragment {
	f := leaf(Callable, label, funcName(v)+signature(v.Type(), 0)+" function")
	if s.opts.Introspection != 0 && depth < introspectionDepth {
		f.Code = s.coder.RenderCode(v, 0, s.opts.Introspection)
	}
	return f
}

func (s *Session) method(m reflect.Method, depth int) *Fragment {
	if depth > s.opts.MaxDepth {
		return truncated()
	}
	label := "<" + boundType(m.Type) + ">"
	f := leaf(Callable, label, funcName(m.Func)+signature(m.Type, 1)+" method")
	if s.opts.Introspection != 0 && depth < introspectionDepth {
		f.Code = s.coder.RenderCode(m.Func, 0, s.opts.Introspection)
	}
	return f
}

func (s *Session) sequence(v reflect.Value, label string, depth int) *Fragment {
	open, close := "[", "]"
	if v.Kind() == reflect.Array {
		open, close = "(", ")"
	}
	f := container(OrderedSequence, label, open, close)
	for i := range v.Len() {
		f.Entries = append(f.Entries, Entry{Value: s.render(v.Index(i), depth+1)})
	}
	return f
}

func (s *Session) set(v reflect.Value, label string, depth int) *Fragment {
	f := container(SetLike, label, "{", "}")
	for _, k := range sortedKeys(v) {
		f.Entries = append(f.Entries, Entry{Value: s.render(k, depth+1)})
	}
	return f
}

func (s *Session) mapping(v reflect.Value, label string, depth int) *Fragment {
	f := container(KeyValueContainer, label, "{", "}")
	for _, k := range sortedKeys(v) {
		if !s.opts.RevealInternal && isReservedKey(k) {
			continue
		}
		f.Entries = append(f.Entries, Entry{
			Name:  Segment{Tag: TagKey, Text: keyText(k)},
			Value: s.render(v.MapIndex(k), depth+1),
		})
	}
	return f
}

// record renders the fields of elem and, above DeepLevel, the method set of
// recv (the value before pointer indirection).
func (s *Session) record(recv, elem reflect.Value, label string, depth int) *Fragment {
	f := &Fragment{
		Class: CompositeRecord,
		Head:  []Segment{{Tag: TagKind, Text: label}},
		Open:  Segment{Tag: TagDivider, Text: dividerText},
		Close: Segment{Tag: TagDivider, Text: dividerText},
	}

	if t := elem.Type(); t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() && !s.opts.RevealInternal {
				continue
			}
			f.Entries = append(f.Entries, Entry{
				Name:  Segment{Tag: TagMember, Text: sf.Name},
				Value: s.render(elem.Field(i), depth+1),
			})
		}
	}

	if depth < s.opts.DeepLevel {
		rt := recv.Type()
		for i := range rt.NumMethod() {
			m := rt.Method(i)
			f.Entries = append(f.Entries, Entry{
				Name:  Segment{Tag: TagMember, Text: m.Name},
				Value: s.method(m, depth+1),
			})
		}
	}
	return f
}

// typeObject renders a reflect.Type as a record of its fields and methods.
// Near the top of the tree each member also names its declaration kind.
func (s *Session) typeObject(rt reflect.Type, label string, depth int) *Fragment {
	f := &Fragment{
		Class: CompositeRecord,
		Head: []Segment{
			{Tag: TagKind, Text: label},
			{Tag: TagLiteral, Text: rt.String() + " (" + rt.Kind().String() + ")"},
		},
		Open:  Segment{Tag: TagDivider, Text: dividerText},
		Close: Segment{Tag: TagDivider, Text: dividerText},
	}
	withKind := depth < introspectionDepth

	if rt.Kind() == reflect.Struct {
		for i := range rt.NumField() {
			sf := rt.Field(i)
			if !sf.IsExported() && !s.opts.RevealInternal {
				continue
			}
			f.Entries = append(f.Entries, Entry{
				Name:  Segment{Tag: TagMember, Text: sf.Name},
				Value: s.member(reflect.ValueOf(sf), depth+1, withKind),
			})
		}
	}
	for i := range rt.NumMethod() {
		m := rt.Method(i)
		f.Entries = append(f.Entries, Entry{
			Name:  Segment{Tag: TagMember, Text: m.Name},
			Value: s.member(reflect.ValueOf(m), depth+1, withKind),
		})
	}
	return f
}

func (s *Session) member(d reflect.Value, depth int, withKind bool) *Fragment {
	if depth > s.opts.MaxDepth {
		return truncated()
	}
	return leaf(Descriptor, typeLabel(d), describe(d, withKind, false))
}

func container(class Classification, label, open, close string) *Fragment {
	return &Fragment{
		Class: class,
		Head:  []Segment{{Tag: TagKind, Text: label}},
		Open:  Segment{Tag: TagBrace, Text: open},
		Close: Segment{Tag: TagBrace, Text: close},
	}
}

func asType(v reflect.Value) (reflect.Type, bool) {
	if !v.Type().Implements(reflectTypeType) || !v.CanInterface() {
		return nil, false
	}
	rt, ok := v.Interface().(reflect.Type)
	return rt, ok
}
