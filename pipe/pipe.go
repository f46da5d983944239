package pipe

import (
	"fmt"
)

// Pipe sends l into r, the `l >> r` of the call protocol:
//
//	value >> unary          dispatch
//	value >> binary         partial with pipe1 = value
//	piped binary >> value   dispatch (pipe1, value)
//	value >> ternary        partial with pipe1 = value
//	piped ternary >> value  partial with pipe2 = value, then dispatch on the next pipe
//
// Nullary functions are never piped (ErrSyntax), variadic pipes fail with
// ErrNotImplemented, and a callable that is not yet piped can only appear on
// the right. Neither operand is ever modified.
func Pipe(l, r any) (any, error) {
	if isNilCallable(l) || isNilCallable(r) {
		return nil, fmt.Errorf("%w: cannot pipe %T into %T, nil function", ErrType, l, r)
	}
	lc, lok := l.(Callable)
	rc, rok := r.(Callable)

	if lok && lc.Style() == Nullary {
		return nil, syntaxErrorf(lc.Name(), "cannot pipe out of a nullary function")
	}
	if rok && rc.Style() == Nullary {
		return nil, syntaxErrorf(rc.Name(), "cannot pipe into a nullary function")
	}
	if lok && lc.Style() == Variadic {
		return nil, fmt.Errorf("%w: %s - piping out of a variadic function", ErrNotImplemented, lc.Name())
	}
	if rok && rc.Style() == Variadic {
		return nil, fmt.Errorf("%w: %s - piping into a variadic function", ErrNotImplemented, rc.Name())
	}

	if lp, ok := l.(*Partial); ok && lp.piped > 0 {
		return lp.receiveRight(r)
	}
	if lok && !rok {
		return nil, leftCallableError(lc)
	}
	if rok {
		if err := checkPositional(rc.Name(), []any{l}); err != nil {
			return nil, err
		}
		switch target := r.(type) {
		case *Fn:
			return target.receiveLeft(l)
		case *Partial:
			return target.receiveLeft(l)
		}
	}
	return nil, fmt.Errorf("%w: cannot pipe %T into %T", ErrType, l, r)
}

// Chain folds Pipe left to right: Chain(a, f, g) is (a >> f) >> g.
func Chain(first any, rest ...any) (any, error) {
	acc := first
	for _, next := range rest {
		v, err := Pipe(acc, next)
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func isNilCallable(v any) bool {
	switch c := v.(type) {
	case *Fn:
		return c == nil
	case *Partial:
		return c == nil
	}
	return false
}

func leftCallableError(c Callable) error {
	if p, ok := c.(*Partial); ok && p.Style() != Unary {
		return syntaxErrorf(c.Name(), "first argument not yet piped")
	}
	return syntaxErrorf(c.Name(), "a %s function must be piped into from the left", c.Style())
}

func (f *Fn) receiveLeft(v any) (any, error) {
	if f.arity == Unary {
		return f.delegate(v)
	}
	return f.unbound().staged(v), nil
}

func (p *Partial) receiveLeft(v any) (any, error) {
	if p.piped > 0 {
		return nil, syntaxErrorf(p.Name(), "already has a piped argument")
	}
	if p.Style() == Unary {
		return p.dispatch(v)
	}
	return p.staged(v), nil
}

// receiveRight takes the next value for a partial that already holds pipe1.
func (p *Partial) receiveRight(v any) (any, error) {
	if err := checkPositional(p.Name(), []any{v}); err != nil {
		return nil, err
	}
	switch {
	case p.Style() == Binary:
		return p.dispatch(p.pipe1, v)
	case p.Style() == Ternary && p.piped == 1:
		return p.staged(v), nil
	case p.Style() == Ternary:
		return p.dispatch(p.pipe1, p.pipe2, v)
	}
	return nil, syntaxErrorf(p.Name(), "cannot accept a value piped from the left")
}
