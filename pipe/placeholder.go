package pipe

import (
	"fmt"

	"github.com/google/uuid"
)

// Placeholder marks an argument position that is not bound yet. Placeholders
// compare by family, so a function only treats its own family as unbound and
// any other Placeholder is an ordinary value to it.
type Placeholder struct {
	family uuid.UUID
}

// Underscore is the placeholder every Fn uses unless told otherwise.
var Underscore = NewPlaceholder()

func NewPlaceholder() Placeholder {
	return Placeholder{family: uuid.New()}
}

func (p Placeholder) String() string { return "_" }

// Family identifies the placeholder.
func (p Placeholder) Family() uuid.UUID { return p.family }

func (p Placeholder) matches(v any) bool {
	other, ok := v.(Placeholder)
	return ok && other == p
}

func (p Placeholder) count(args []any) int {
	n := 0
	for _, a := range args {
		if p.matches(a) {
			n++
		}
	}
	return n
}

// Keyword is a named argument. Functions here only take positional
// arguments, so a Keyword anywhere in a call is rejected.
type Keyword struct {
	Name  string
	Value any
}

func checkPositional(fn string, args []any) error {
	for _, a := range args {
		if kw, ok := a.(Keyword); ok {
			return fmt.Errorf("%w: %s does not take keyword arguments (got %q)", ErrType, fn, kw.Name)
		}
	}
	return nil
}
