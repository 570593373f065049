package vdom

import (
	"reflect"
	"unsafe"
)

// Equal reports whether two nodes have the same shape for reconciliation:
// same kind, and for elements the same tag and key, for components the same
// component and key. Content differences are left to the patcher.
func Equal(a, b *VNode) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag && a.Key == b.Key
	case KindComponent:
		return a.Component == b.Component && a.Key == b.Key
	}
	return true
}

// ExtractChildren returns v's children with nested fragments spliced in
// recursively.
func ExtractChildren(v *VNode) []*VNode {
	if v == nil || len(v.Children) == 0 {
		return nil
	}
	out := make([]*VNode, 0, len(v.Children))
	for _, c := range v.Children {
		if c.Kind == KindFragment {
			out = append(out, ExtractChildren(c)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// PropsEqual reports whether two prop sets are deeply equal. Cyclic values
// are not supported.
func PropsEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !ValueEqual(av, bv) {
			return false
		}
	}
	return true
}

// ValueEqual compares two prop values. Maps, slices, arrays, structs and
// pointers are compared structurally. Functions are equal only when they are
// the same function value: the same top-level function, method value or
// closure instance. Two closures created by separate evaluations of one
// literal differ, since they may capture different variables.
func ValueEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	case Props:
		bv, ok := b.(Props)
		return ok && PropsEqual(av, bv)
	}
	return deepEqual(reflect.ValueOf(a), reflect.ValueOf(b))
}

func deepEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		if !a.CanInterface() || !b.CanInterface() {
			return false
		}
		return funcIdentity(a.Interface()) == funcIdentity(b.Interface())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return deepEqual(a.Elem(), b.Elem())
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return deepEqual(a.Elem(), b.Elem())
	case reflect.Slice:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		return elementsEqual(a, b)
	case reflect.Array:
		return elementsEqual(a, b)
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !deepEqual(iter.Value(), bv) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !deepEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}
	return a.Equal(b)
}

func elementsEqual(a, b reflect.Value) bool {
	for i := 0; i < a.Len(); i++ {
		if !deepEqual(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}

// funcIdentity returns the closure pointer held in the interface's data
// word. Func values are pointer-shaped, so the word is the func value itself.
func funcIdentity(f any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&f))[1]
}
