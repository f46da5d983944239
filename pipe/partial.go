package pipe

import (
	"fmt"
	"strings"
)

// Partial is a function with some positions bound. A partial made by a
// direct call keeps its argument list with placeholders in the unbound
// positions and can be reused freely. Pipes never modify it; they stage
// their values in a new Partial (pipe1, then pipe2 for ternary style).
type Partial struct {
	fn      *Fn
	args    []any
	missing int

	piped int // staged pipe values, 0..2
	pipe1 any
	pipe2 any
}

func newPartial(fn *Fn, args []any, missing int) *Partial {
	return &Partial{fn: fn, args: args, missing: missing}
}

func (p *Partial) Name() string { return p.fn.Name() }

// Style is the number of missing positions, or Variadic for partials of a
// variadic function.
func (p *Partial) Style() Arity {
	if p.fn.arity == Variadic {
		return Variadic
	}
	return Arity(p.missing)
}

func (p *Partial) Fn() *Fn { return p.fn }

// NumArgs is the length of the full argument list.
func (p *Partial) NumArgs() int { return len(p.args) }

// Missing is the number of positions still unbound.
func (p *Partial) Missing() int { return p.missing }

func (p *Partial) Pipe1() (any, bool) { return p.pipe1, p.piped >= 1 }
func (p *Partial) Pipe2() (any, bool) { return p.pipe2, p.piped >= 2 }

// Args answers a copy of the argument list, placeholders included.
func (p *Partial) Args() []any { return append([]any(nil), p.args...) }

// UnboundOffsets answers the positions holding the function's placeholder,
// in order.
func (p *Partial) UnboundOffsets() []int {
	offsets := make([]int, 0, p.missing)
	for i, a := range p.args {
		if p.fn.ph.matches(a) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func (*Partial) sealedCallable() {}

// Call fills the unbound positions left to right. Arguments that are
// themselves placeholders leave their position open and yield a narrower
// Partial; otherwise the delegate is invoked. p is not modified.
func (p *Partial) Call(args ...any) (any, error) {
	name := p.Name()
	if err := checkPositional(name, args); err != nil {
		return nil, err
	}
	if p.piped > 0 {
		return nil, syntaxErrorf(name, "partial is no longer callable in that style once piped")
	}
	if len(args) != p.missing {
		return nil, arityError(name, fmt.Sprint(p.missing), len(args))
	}
	combined, err := p.bind(args)
	if err != nil {
		return nil, err
	}
	if still := p.fn.ph.count(args); still > 0 {
		return newPartial(p.fn, combined, still), nil
	}
	return p.fn.delegate(combined...)
}

// bind answers a fresh argument list with values spliced into the unbound
// positions.
func (p *Partial) bind(values []any) ([]any, error) {
	offsets := p.UnboundOffsets()
	if len(offsets) != p.missing || len(values) != p.missing {
		return nil, fmt.Errorf("%w: %s - %d unbound positions found, %d expected, %d values supplied",
			ErrReentrancy, p.Name(), len(offsets), p.missing, len(values))
	}
	combined := make([]any, len(p.args))
	copy(combined, p.args)
	for i, o := range offsets {
		combined[o] = values[i]
	}
	return combined, nil
}

func (p *Partial) dispatch(values ...any) (any, error) {
	combined, err := p.bind(values)
	if err != nil {
		return nil, err
	}
	return p.fn.delegate(combined...)
}

// staged answers a copy of p with v as its next piped value.
func (p *Partial) staged(v any) *Partial {
	q := *p
	switch q.piped {
	case 0:
		q.pipe1 = v
	case 1:
		q.pipe2 = v
	}
	q.piped++
	return &q
}

func (p *Partial) String() string {
	parts := make([]string, len(p.args))
	for i, a := range p.args {
		parts[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("<%s partial %s(%s)>", p.Style(), p.Name(), strings.Join(parts, ", "))
}
