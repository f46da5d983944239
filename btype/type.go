package btype

import (
	"errors"
	"fmt"
)

// Word is one 16-bit unit of a type identifier as it is laid out in a
// selection cache slot.
type Word = uint16

const (
	// Null is the padding sentinel. No valid primary word is ever Null.
	Null Word = 0x0000

	HasExtMask Word = 0x8000 // primary word carries an extension word
	IsPtrMask  Word = 0x4000 // value is pointer-like
	IDMask     Word = 0x3FFF // direct id bits of the primary word
	ExtMask    Word = 0x0007 // bits an extension word may use

	ExtShift = 14

	MaxNumT1Types = 1 << 14 // 16K single word ids
	MaxNumT2Types = 1 << 17 // 128K ids with an extension word
)

var ErrTypeRange = errors.New("type id out of range")

// T is a type identifier handed out by the type registry. The primary word
// holds the id (or its low 14 bits), the pointer flag and the extension flag.
// TN2 is only meaningful when the extension flag is set.
type T struct {
	TN1 Word
	TN2 Word
}

// New builds the identifier for id. Ids below 16K fit the primary word, ids
// below 128K spill their high bits into the extension word.
func New(id uint32, isPtr bool) (T, error) {
	if id == 0 || id >= MaxNumT2Types {
		return T{}, fmt.Errorf("%w: id %d is not within {1, %d}", ErrTypeRange, id, MaxNumT2Types-1)
	}
	var t T
	if id < MaxNumT1Types {
		t.TN1 = Word(id)
	} else {
		t.TN1 = HasExtMask | Word(id)&IDMask
		t.TN2 = Word(id >> ExtShift)
	}
	if isPtr {
		t.TN1 |= IsPtrMask
	}
	return t, nil
}

// MustNew is New for ids known to be valid, e.g. in tables and tests.
func MustNew(id uint32, isPtr bool) T {
	t, err := New(id, isPtr)
	if err != nil {
		panic(err)
	}
	return t
}

// FromWords rebuilds an identifier from its primary word and, when the
// primary word asks for one, its extension word. The extension word must be
// Null when the primary word carries no extension flag.
func FromWords(tn1, tn2 Word) (T, error) {
	if tn1&HasExtMask == 0 {
		if tn1&IDMask == 0 {
			return T{}, fmt.Errorf("%w: primary word %#04x has a null id", ErrTypeRange, tn1)
		}
		if tn2 != Null {
			return T{}, fmt.Errorf("%w: extension word %#04x set without the extension flag on %#04x", ErrTypeRange, tn2, tn1)
		}
		return T{TN1: tn1}, nil
	}
	if tn2 == Null || tn2&^ExtMask != 0 {
		return T{}, fmt.Errorf("%w: extension word %#04x is not within {1, %d}", ErrTypeRange, tn2, ExtMask)
	}
	return T{TN1: tn1, TN2: tn2}, nil
}

func (t T) HasExt() bool { return t.TN1&HasExtMask != 0 }

func (t T) IsPtr() bool { return t.TN1&IsPtrMask != 0 }

func (t T) IsNull() bool { return t.TN1 == Null }

// ID answers the registry id, flags stripped.
func (t T) ID() uint32 {
	id := uint32(t.TN1 & IDMask)
	if t.HasExt() {
		id |= uint32(t.TN2) << ExtShift
	}
	return id
}

// NumWords is 1, or 2 with an extension word.
func (t T) NumWords() int {
	if t.HasExt() {
		return 2
	}
	return 1
}

// Words answers the slot encoding of t.
func (t T) Words() []Word {
	if t.HasExt() {
		return []Word{t.TN1, t.TN2}
	}
	return []Word{t.TN1}
}

func (t T) String() string {
	if t.IsPtr() {
		return fmt.Sprintf("T%d*", t.ID())
	}
	return fmt.Sprintf("T%d", t.ID())
}
