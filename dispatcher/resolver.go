package dispatcher

import (
	"fmt"
	"strings"

	"github.com/on-the-ground/dispatch_ive_go/btype"
)

// Resolver picks the overload for sig among the candidates declared with
// the same number of arguments. It runs on cache misses only.
type Resolver func(sig btype.Signature, candidates []Overload) (Overload, error)

// Exact accepts only an overload declared for exactly sig.
func Exact(sig btype.Signature, candidates []Overload) (Overload, error) {
	for _, c := range candidates {
		if c.Sig.Equal(sig) {
			return c, nil
		}
	}
	return Overload{}, fmt.Errorf("%w: %v", ErrNoMatch, sig)
}

// BestMatch lets overload positions declared with the wildcard type accept
// any argument type. The candidate with the most exact positions wins; a
// tie between the best candidates is ErrAmbiguous.
func BestMatch(wildcard btype.T) Resolver {
	return func(sig btype.Signature, candidates []Overload) (Overload, error) {
		best := -1
		var winners []Overload
		for _, c := range candidates {
			score, ok := matchScore(sig, c.Sig, wildcard)
			if !ok {
				continue
			}
			switch {
			case score > best:
				best = score
				winners = append(winners[:0], c)
			case score == best:
				winners = append(winners, c)
			}
		}
		switch len(winners) {
		case 0:
			return Overload{}, fmt.Errorf("%w: %v", ErrNoMatch, sig)
		case 1:
			return winners[0], nil
		}
		sigs := make([]string, len(winners))
		for i, w := range winners {
			sigs[i] = w.Sig.String()
		}
		return Overload{}, fmt.Errorf("%w: %v matches %s", ErrAmbiguous, sig, strings.Join(sigs, " and "))
	}
}

func matchScore(sig, declared btype.Signature, wildcard btype.T) (int, bool) {
	if len(sig) != len(declared) {
		return 0, false
	}
	score := 0
	for i, t := range sig {
		switch declared[i] {
		case t:
			score++
		case wildcard:
		default:
			return 0, false
		}
	}
	return score, true
}
