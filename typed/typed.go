// Package typed adapts ordinary typed Go functions into pipe delegates.
package typed

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/dispatch_ive_go/pipe"
	"github.com/on-the-ground/dispatch_ive_go/shared/helper"
)

func DelegateI0O1[O1 any](fn func() O1) pipe.Delegate {
	return DelegateI0O1E(func() (O1, error) { return fn(), nil })
}

func DelegateI1O1[I1, O1 any](fn func(I1) O1) pipe.Delegate {
	return DelegateI1O1E(func(i1 I1) (O1, error) { return fn(i1), nil })
}

func DelegateI2O1[I1, I2, O1 any](fn func(I1, I2) O1) pipe.Delegate {
	return DelegateI2O1E(func(i1 I1, i2 I2) (O1, error) { return fn(i1, i2), nil })
}

func DelegateI3O1[I1, I2, I3, O1 any](fn func(I1, I2, I3) O1) pipe.Delegate {
	return DelegateI3O1E(func(i1 I1, i2 I2, i3 I3) (O1, error) { return fn(i1, i2, i3), nil })
}

func DelegateI0O1E[O1 any](fn func() (O1, error)) pipe.Delegate {
	return func(args ...any) (any, error) {
		if err := checkCount(args, 0); err != nil {
			return nil, err
		}
		return fn()
	}
}

func DelegateI1O1E[I1, O1 any](fn func(I1) (O1, error)) pipe.Delegate {
	return func(args ...any) (any, error) {
		if err := checkCount(args, 1); err != nil {
			return nil, err
		}
		i1, err := arg[I1](args, 0)
		if err != nil {
			return nil, err
		}
		return fn(i1)
	}
}

func DelegateI2O1E[I1, I2, O1 any](fn func(I1, I2) (O1, error)) pipe.Delegate {
	return func(args ...any) (any, error) {
		if err := checkCount(args, 2); err != nil {
			return nil, err
		}
		i1, err := arg[I1](args, 0)
		if err != nil {
			return nil, err
		}
		i2, err := arg[I2](args, 1)
		if err != nil {
			return nil, err
		}
		return fn(i1, i2)
	}
}

func DelegateI3O1E[I1, I2, I3, O1 any](fn func(I1, I2, I3) (O1, error)) pipe.Delegate {
	return func(args ...any) (any, error) {
		if err := checkCount(args, 3); err != nil {
			return nil, err
		}
		i1, err := arg[I1](args, 0)
		if err != nil {
			return nil, err
		}
		i2, err := arg[I2](args, 1)
		if err != nil {
			return nil, err
		}
		i3, err := arg[I3](args, 2)
		if err != nil {
			return nil, err
		}
		return fn(i1, i2, i3)
	}
}

// Result extracts a typed value from a call or pipe result.
func Result[T any](v any, err error) (T, error) {
	res, err := helper.TypedValueOf[T](v, err)
	if errors.Is(err, helper.ErrUnexpectedType) {
		return res, fmt.Errorf("%w: %w", pipe.ErrType, err)
	}
	return res, err
}

func checkCount(args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: typed delegate - %d expected, %d given", pipe.ErrArity, n, len(args))
	}
	return nil
}

func arg[T any](args []any, i int) (T, error) {
	v, err := helper.TypedArg[T](args, i)
	if err != nil {
		return v, fmt.Errorf("%w: %w", pipe.ErrType, err)
	}
	return v, nil
}
