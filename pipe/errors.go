package pipe

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is a pipe used in a direction or style the target does not allow.
	ErrSyntax = errors.New("pipe syntax error")
	// ErrArity is a direct call with the wrong number of arguments.
	ErrArity = errors.New("arity error")
	// ErrReentrancy means a partial's unbound positions no longer add up.
	ErrReentrancy = errors.New("partial reentrancy error")
	// ErrType covers keyword arguments, nil delegates and operands that are
	// not a recognized kind.
	ErrType = errors.New("type error")
	// ErrNotImplemented is raised by pipes into or out of variadic functions.
	ErrNotImplemented = errors.New("not implemented")
)

func syntaxErrorf(fn string, format string, args ...any) error {
	return fmt.Errorf("%w: %s - %s", ErrSyntax, fn, fmt.Sprintf(format, args...))
}

func arityError(fn string, expected string, given int) error {
	return fmt.Errorf("%w: %s - %s expected, %d given", ErrArity, fn, expected, given)
}
