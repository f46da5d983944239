package helper

import (
	"errors"
	"fmt"
)

var ErrUnexpectedType = errors.New("unexpected type")

// TypedValueOf asserts the result of a call to the expected type T. A call
// error is returned unchanged.
func TypedValueOf[T any](res any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T, want %T", ErrUnexpectedType, res, zero)
	}
	return val, nil
}

// MustTypedValueOf is the panic-on-failure variant of TypedValueOf.
func MustTypedValueOf[T any](res any, err error) T {
	val, err := TypedValueOf[T](res, err)
	if err != nil {
		panic(err)
	}
	return val
}

// TypedArg asserts args[i] to T. Untyped nil is accepted when T is an
// interface type.
func TypedArg[T any](args []any, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, fmt.Errorf("args[%d] is past the end of %d arguments", i, len(args))
	}
	a := args[i]
	if a == nil && any(zero) == nil {
		return zero, nil
	}
	val, ok := a.(T)
	if !ok {
		return zero, fmt.Errorf("%w: args[%d] is %T, want %T", ErrUnexpectedType, i, a, zero)
	}
	return val, nil
}
