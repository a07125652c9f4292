package core

import (
	"fmt"
	"reflect"
)

// Handle is a stored replacement function together with its dynamic type.
// The zero Handle holds nothing.
type Handle struct {
	value any
	typ   reflect.Type
}

// Type returns the function type the handle was stored with.
func (h Handle) Type() reflect.Type {
	return h.typ
}

// Value returns the stored function as an untyped value.
func (h Handle) Value() any {
	return h.value
}

// As returns the handle's function as F. It fails with ErrTypeMismatch when
// F is not exactly the type that was stored.
func As[F any](h Handle) (F, error) {
	var zero F

	want := reflect.TypeFor[F]()
	if h.typ != want {
		return zero, fmt.Errorf("%w: stored %v, requested %v", ErrTypeMismatch, h.typ, want)
	}

	fn, ok := h.value.(F)
	if !ok {
		return zero, fmt.Errorf("%w: stored %v, requested %v", ErrTypeMismatch, h.typ, want)
	}

	return fn, nil
}

// newHandle wraps fn, which must be a non-nil function value.
func newHandle(fn any) (Handle, error) {
	if fn == nil {
		return Handle{}, fmt.Errorf("%w: got nil", ErrNotFunc)
	}

	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return Handle{}, fmt.Errorf("%w: got %T", ErrNotFunc, fn)
	}

	if val.IsNil() {
		return Handle{}, fmt.Errorf("%w: got nil %T", ErrNotFunc, fn)
	}

	return Handle{value: fn, typ: val.Type()}, nil
}
