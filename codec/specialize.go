package codec

import (
	"reflect"
)

// TypeID is a runtime type-identity token.
type TypeID struct {
	t reflect.Type
}

// TypeIDOf returns the token for T.
func TypeIDOf[T any]() TypeID {
	return TypeID{t: reflect.TypeFor[T]()}
}

// TypeIDOfValue returns the token for the dynamic type of v.
func TypeIDOfValue(v any) TypeID {
	return TypeID{t: reflect.TypeOf(v)}
}

func (id TypeID) String() string {
	if id.t == nil {
		return "<nil>"
	}
	return id.t.String()
}

// TryCast returns v as T when the dynamic type of v is exactly T. Values
// that merely implement an interface T do not match.
func TryCast[T any](v any) (T, bool) {
	var zero T
	if TypeIDOfValue(v) != TypeIDOf[T]() {
		return zero, false
	}
	return v.(T), true
}
