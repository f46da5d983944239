package btype

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxArgs is the most type identifiers a signature can hold.
	MaxArgs = 16

	// LenMask selects the count held in a size prefix word.
	LenMask Word = 0x001F
)

var ErrSignature = errors.New("invalid signature")

// Signature is the ordered list of argument types of one call site.
type Signature []T

// NewSignature checks that ts is a usable signature: 1 to 16 non null types.
func NewSignature(ts ...T) (Signature, error) {
	sig := Signature(ts)
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

// MustSignature is NewSignature for literal signatures.
func MustSignature(ts ...T) Signature {
	sig, err := NewSignature(ts...)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s Signature) Validate() error {
	if len(s) < 1 || len(s) > MaxArgs {
		return fmt.Errorf("%w: %d types is not within {1, %d}", ErrSignature, len(s), MaxArgs)
	}
	for i, t := range s {
		if _, err := FromWords(t.TN1, t.TN2); err != nil {
			return fmt.Errorf("%w: args[%d]: %w", ErrSignature, i, err)
		}
	}
	return nil
}

// NumWords counts the body words, prefix excluded.
func (s Signature) NumWords() int {
	n := 0
	for _, t := range s {
		n += t.NumWords()
	}
	return n
}

// Words answers the size prefixed encoding: word 0 is the number of types,
// followed by each type's words.
func (s Signature) Words() []Word {
	words := make([]Word, 1, 1+s.NumWords())
	words[0] = Word(len(s)) & LenMask
	for _, t := range s {
		words = append(words, t.Words()...)
	}
	return words
}

// SignatureFromWords decodes a size prefixed encoding. Words after the last
// type are ignored, so a whole slot can be passed in.
func SignatureFromWords(words []Word) (Signature, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no size prefix", ErrSignature)
	}
	count := int(words[0] & LenMask)
	sig := make(Signature, 0, count)
	o := 1
	for i := 0; i < count; i++ {
		if o >= len(words) {
			return nil, fmt.Errorf("%w: args[%d] is past the end of %d words", ErrSignature, i, len(words))
		}
		tn1, tn2 := words[o], Null
		o++
		if tn1&HasExtMask != 0 {
			if o >= len(words) {
				return nil, fmt.Errorf("%w: args[%d] extension word is missing", ErrSignature, i)
			}
			tn2 = words[o]
			o++
		}
		t, err := FromWords(tn1, tn2)
		if err != nil {
			return nil, fmt.Errorf("%w: args[%d]: %w", ErrSignature, i, err)
		}
		sig = append(sig, t)
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
