// Package pipe implements the call, partial application and pipe protocol of
// multi-arity functions.
//
// A Callable is always one of
//
//	*Fn       a bound function, nothing bound yet
//	*Partial  some positions bound by a direct call with placeholders, or
//	          values staged by pipes (pipe1, pipe2)
//
// Direct calls bind positions by placeholder, pipes feed values left to
// right with Pipe. A direct-call Partial is an immutable value and can take
// part in any number of pipe expressions, nested ones included:
//
//	fred, _ := add3.Call(1, pipe.Underscore, pipe.Underscore)
//	inner, _ := pipe.Chain(2, fred, 3)    // add3(1, 2, 3)
//	outer, _ := pipe.Chain(1, fred, inner) // add3(1, 1, inner)
//
// Every dispatch builds a fresh argument list.
package pipe
