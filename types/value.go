package types

import "reflect"

/*
Value is the tagged payload stored behind a key.

One key space holds results of many different types. Type records which
type produced the payload so that asking for the same key with another
result type is detected instead of silently treated as a miss.

Type is compared by identity, not by name: two function-local types that
both print as "pkg.result" are still different types.
*/
type Value struct {
	Type    reflect.Type
	Payload any
}

// TypeOf returns the type identity for V.
func TypeOf[V any]() reflect.Type {
	return reflect.TypeFor[V]()
}

// Box wraps v with the identity of its static type.
func Box[V any](v V) Value {
	return Value{Type: TypeOf[V](), Payload: v}
}

// Unbox returns the payload as V. A nil payload yields the zero V.
// It reports false when the payload holds something that is not a V.
func Unbox[V any](v Value) (V, bool) {
	if v.Payload == nil {
		var zero V
		return zero, true
	}
	out, ok := v.Payload.(V)
	return out, ok
}
