package render

import "reflect"

// Identity is the content-independent identity of a reference value.
// The type is part of the identity because a struct and its first field
// share an address.
type Identity struct {
	Addr uintptr
	Type reflect.Type
	Len  int
}

// IdentityOf returns the identity of v. Pointers, maps and non-empty slices
// have one; every other value, including nil references, does not.
//
// Pointers to zero-size values and slices of zero-size elements have no
// identity either: distinct zero-size allocations may share one address,
// and they cannot hold a reference back to anything.
func IdentityOf(v reflect.Value) (Identity, bool) {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return Identity{}, false
		}
		return Identity{Addr: v.Pointer(), Type: v.Type()}, true
	case reflect.Pointer:
		if v.IsNil() || v.Type().Elem().Size() == 0 {
			return Identity{}, false
		}
		return Identity{Addr: v.Pointer(), Type: v.Type()}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 || v.Type().Elem().Size() == 0 {
			return Identity{}, false
		}
		return Identity{Addr: v.Pointer(), Type: v.Type(), Len: v.Len()}, true
	}
	return Identity{}, false
}

// Visited is the set of identities seen by one render session.
// It is not safe for concurrent use.
type Visited struct {
	ids map[Identity]struct{}
}

// NewVisited returns an empty set.
func NewVisited() *Visited {
	return &Visited{ids: make(map[Identity]struct{})}
}

// Seen reports whether id was marked.
func (s *Visited) Seen(id Identity) bool {
	_, ok := s.ids[id]
	return ok
}

// Mark records id.
func (s *Visited) Mark(id Identity) {
	s.ids[id] = struct{}{}
}

// Len returns the number of marked identities.
func (s *Visited) Len() int {
	return len(s.ids)
}
