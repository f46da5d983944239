package pipe

import "fmt"

// Arity tags how many positional arguments a function takes.
type Arity int

const (
	Nullary Arity = iota
	Unary
	Binary
	Ternary
	Variadic
)

// MaxArgs is the longest positional argument list a call accepts.
const MaxArgs = 16

func (a Arity) String() string {
	switch a {
	case Nullary:
		return "nullary"
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	case Ternary:
		return "ternary"
	case Variadic:
		return "variadic"
	}
	return fmt.Sprintf("Arity(%d)", int(a))
}

// Fixed answers the exact argument count, false for Variadic.
func (a Arity) Fixed() (int, bool) {
	if a == Variadic {
		return 0, false
	}
	return int(a), true
}

func (a Arity) valid() bool { return a >= Nullary && a <= Variadic }
