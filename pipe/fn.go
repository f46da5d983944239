package pipe

import (
	"fmt"
)

// Delegate is the underlying implementation invoked once every position is
// bound. Its results, error included, are handed back unchanged.
type Delegate func(args ...any) (any, error)

// Callable is either a bound function (*Fn) or a partial (*Partial).
type Callable interface {
	// Name is the qualified name "namespace.name".
	Name() string
	// Style is the arity a value of this kind is piped with.
	Style() Arity
	Call(args ...any) (any, error)

	sealedCallable()
}

// Fn is a bound function: a named delegate of fixed arity with no position
// bound yet.
type Fn struct {
	name      string
	namespace string
	arity     Arity
	delegate  Delegate
	ph        Placeholder
}

type Option func(*Fn)

// WithPlaceholder makes the function recognize ph instead of Underscore.
func WithPlaceholder(ph Placeholder) Option {
	return func(f *Fn) { f.ph = ph }
}

func NewFn(name, namespace string, arity Arity, d Delegate, opts ...Option) (*Fn, error) {
	f := &Fn{name: name, namespace: namespace, arity: arity, ph: Underscore}
	for _, opt := range opts {
		opt(f)
	}
	if !arity.valid() {
		return nil, fmt.Errorf("%w: %s - unknown arity %d", ErrArity, f.Name(), int(arity))
	}
	if err := f.SetDelegate(d); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFn is NewFn for package level function tables.
func MustFn(name, namespace string, arity Arity, d Delegate, opts ...Option) *Fn {
	f, err := NewFn(name, namespace, arity, d, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Fn) Name() string {
	if f.namespace == "" {
		return f.name
	}
	return f.namespace + "." + f.name
}

func (f *Fn) Style() Arity             { return f.arity }
func (f *Fn) Arity() Arity             { return f.arity }
func (f *Fn) Placeholder() Placeholder { return f.ph }
func (f *Fn) Delegate() Delegate       { return f.delegate }

// SetDelegate swaps the implementation. Partials made from f see the change.
func (f *Fn) SetDelegate(d Delegate) error {
	if d == nil {
		return fmt.Errorf("%w: %s - delegate must be callable", ErrType, f.Name())
	}
	f.delegate = d
	return nil
}

func (*Fn) sealedCallable() {}

// Call invokes the delegate when every argument is concrete. Placeholders
// among the arguments yield a Partial instead.
func (f *Fn) Call(args ...any) (any, error) {
	if err := checkPositional(f.Name(), args); err != nil {
		return nil, err
	}
	if err := f.checkCount(len(args)); err != nil {
		return nil, err
	}
	missing := f.ph.count(args)
	if missing == 0 {
		return f.delegate(args...)
	}
	return newPartial(f, append([]any(nil), args...), missing), nil
}

func (f *Fn) checkCount(given int) error {
	if given > MaxArgs {
		return arityError(f.Name(), fmt.Sprintf("at most %d", MaxArgs), given)
	}
	if n, ok := f.arity.Fixed(); ok {
		if given != n {
			return arityError(f.Name(), fmt.Sprint(n), given)
		}
		return nil
	}
	if given < 1 {
		return arityError(f.Name(), "at least 1", given)
	}
	return nil
}

// unbound answers a partial with every position unbound, the starting point
// of a pipe into f.
func (f *Fn) unbound() *Partial {
	n, _ := f.arity.Fixed()
	args := make([]any, n)
	for i := range args {
		args[i] = f.ph
	}
	return newPartial(f, args, n)
}

func (f *Fn) String() string {
	return fmt.Sprintf("<%s %s>", f.arity, f.Name())
}
