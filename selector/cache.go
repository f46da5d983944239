package selector

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/on-the-ground/dispatch_ive_go/btype"
)

type Word = btype.Word

const (
	MinNumArgs  = 1
	MaxNumArgs  = btype.MaxArgs
	MinNumSlots = 1
	MaxNumSlots = 128

	MaxHashNSlots = 4096
	MaxFnID       = 0xFFFF

	vLMask             Word = 0x001F // count in the header, low payload bits in the last word
	vUMask             Word = 0xFFE0 // high payload bits in the header
	lastTNPayloadShift      = 3
	lastTNTypeMask          = btype.ExtMask
)

var (
	ErrConfiguration = errors.New("selector cache configuration error")
	ErrDestroyed     = errors.New("selector cache has been destroyed")
	ErrFull          = errors.New("selector cache is full")
)

// SlotWidthFromNumArgs answers the number of words per slot.
func SlotWidthFromNumArgs(numArgs int) int { return 1 + 2*numArgs }

// NumArgsFromSlotWidth is the inverse of SlotWidthFromNumArgs.
func NumArgsFromSlotWidth(slotWidth int) int { return (slotWidth - 1) / 2 }

// Cache is a fixed capacity signature selection cache. The capacity is set
// at creation and never changes; callers needing more room create a new one.
type Cache struct {
	slotWidth  uint8
	numSlots   uint8
	hashNSlots uint16
	typeNums   []Word // query, array slots, hash slots

	hits    atomic.Uint64
	misses  atomic.Uint64
	created time.Time
}

// New creates a cache for signatures of up to numArgs types with numSlots
// array slots and no hash region.
func New(numArgs, numSlots int) (*Cache, error) {
	return NewWithHash(numArgs, numSlots, 0)
}

// NewWithHash is New with an additional hash region of hashNSlots slots.
func NewWithHash(numArgs, numSlots, hashNSlots int) (*Cache, error) {
	if err := checkWithin("numArgs", numArgs, MinNumArgs, MaxNumArgs); err != nil {
		return nil, err
	}
	if err := checkWithin("numSlots", numSlots, MinNumSlots, MaxNumSlots); err != nil {
		return nil, err
	}
	if err := checkWithin("hashNSlots", hashNSlots, 0, MaxHashNSlots); err != nil {
		return nil, err
	}
	slotWidth := SlotWidthFromNumArgs(numArgs)
	return &Cache{
		slotWidth:  uint8(slotWidth),
		numSlots:   uint8(numSlots),
		hashNSlots: uint16(hashNSlots),
		typeNums:   make([]Word, (1+numSlots+hashNSlots)*slotWidth),
		created:    time.Now(),
	}, nil
}

func checkWithin(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d is not within {%d, %d}", ErrConfiguration, name, v, lo, hi)
	}
	return nil
}

// Destroy releases the buffer. Any later use fails with ErrDestroyed.
func (c *Cache) Destroy() error {
	if c.typeNums == nil {
		return ErrDestroyed
	}
	c.typeNums = nil
	return nil
}

func (c *Cache) Destroyed() bool { return c.typeNums == nil }

func (c *Cache) NumArgs() int    { return NumArgsFromSlotWidth(int(c.slotWidth)) }
func (c *Cache) SlotWidth() int  { return int(c.slotWidth) }
func (c *Cache) NumSlots() int   { return int(c.numSlots) }
func (c *Cache) HashNSlots() int { return int(c.hashNSlots) }

func (c *Cache) query() []Word {
	return c.typeNums[:c.slotWidth]
}

// arraySlot answers the zero based array slot o.
func (c *Cache) arraySlot(o int) []Word {
	sw := int(c.slotWidth)
	start := (1 + o) * sw
	return c.typeNums[start : start+sw]
}

func (c *Cache) hashSlot(o int) []Word {
	sw := int(c.slotWidth)
	start := (1 + int(c.numSlots) + o) * sw
	return c.typeNums[start : start+sw]
}

// fill writes the size prefixed words of sig into dst and Null pads the rest.
// It answers the number of words used, prefix included.
func fill(dst []Word, sig btype.Signature) int {
	dst[0] = Word(len(sig)) & vLMask
	o := 1
	for _, t := range sig {
		dst[o] = t.TN1
		o++
		if t.HasExt() {
			dst[o] = t.TN2
			o++
		}
	}
	for i := o; i < len(dst); i++ {
		dst[i] = btype.Null
	}
	return o
}

// put stores the size prefixed signature src into dest with payload v.
func put(dest, src []Word, v uint16) {
	size := src[0] & vLMask
	dest[0] = v&vUMask | size
	n := copy(dest[1:], src[1:])
	for o := 1 + n; o < len(dest); o++ {
		dest[o] = btype.Null
	}
	last := len(dest) - 1
	dest[last] |= (v & vLMask) << lastTNPayloadShift
}

// matches compares count then every type word. The last word of a stored
// slot also carries payload bits, so it is compared through the type mask.
func matches(query, sig []Word) bool {
	if query[0]&vLMask != sig[0]&vLMask {
		return false
	}
	last := len(sig) - 1
	for o := 1; o < last; o++ {
		if query[o] != sig[o] {
			return false
		}
	}
	return query[last] == sig[last]&lastTNTypeMask
}

func payload(sig []Word) uint16 {
	last := len(sig) - 1
	return sig[0]&vUMask | (sig[last]>>lastTNPayloadShift)&vLMask
}

func (c *Cache) checkSignature(sig btype.Signature) error {
	if len(sig) < 1 || len(sig) > c.NumArgs() {
		return fmt.Errorf("%w: signature of %d types is not within {1, %d}", ErrConfiguration, len(sig), c.NumArgs())
	}
	return sig.Validate()
}

func (c *Cache) checkIndex(index int) error {
	return checkWithin("index", index, 1, int(c.numSlots))
}

func checkFnID(fnID int) error {
	return checkWithin("functionId", fnID, 0, MaxFnID)
}

// Insert writes sig with fnID at the one based array index. No collision
// detection is done; pick the index with NextFreeIndex.
func (c *Cache) Insert(index int, sig btype.Signature, fnID int) error {
	if c.Destroyed() {
		return ErrDestroyed
	}
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if err := checkFnID(fnID); err != nil {
		return err
	}
	if err := c.checkSignature(sig); err != nil {
		return err
	}
	var buf [1 + 2*btype.MaxArgs]Word
	n := fill(buf[:c.slotWidth], sig)
	put(c.arraySlot(index-1), buf[:n], uint16(fnID))
	return nil
}

// NextFreeIndex answers the one based index of the first empty array slot,
// or 0 when every slot is filled.
func (c *Cache) NextFreeIndex() int {
	if c.Destroyed() {
		return 0
	}
	for o := 0; o < int(c.numSlots); o++ {
		if c.arraySlot(o)[0] == btype.Null {
			return o + 1
		}
	}
	return 0
}

// Filled counts the filled array slots.
func (c *Cache) Filled() int {
	if c.Destroyed() {
		return 0
	}
	n := 0
	for o := 0; o < int(c.numSlots); o++ {
		if c.arraySlot(o)[0] != btype.Null {
			n++
		}
	}
	return n
}

func (c *Cache) probeArray(query []Word) uint16 {
	for o := 0; o < int(c.numSlots); o++ {
		slot := c.arraySlot(o)
		if slot[0] == btype.Null {
			return 0
		}
		if matches(query, slot) {
			return payload(slot)
		}
	}
	return 0
}

func (c *Cache) count(v uint16) uint16 {
	if v == 0 {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}
	return v
}

// Probe answers the function id stored for sig in the array region, or 0 on
// a miss. The query is assembled on the stack so the shared query slot is
// left alone.
func (c *Cache) Probe(sig btype.Signature) uint16 {
	if c.Destroyed() || len(sig) < 1 || len(sig) > c.NumArgs() {
		return c.count(0)
	}
	var buf [1 + 2*btype.MaxArgs]Word
	query := buf[:c.slotWidth]
	fill(query, sig)
	return c.count(c.probeArray(query))
}

// Lookup probes the array region and then the hash region.
func (c *Cache) Lookup(sig btype.Signature) uint16 {
	if c.Destroyed() || len(sig) < 1 || len(sig) > c.NumArgs() {
		return c.count(0)
	}
	var buf [1 + 2*btype.MaxArgs]Word
	query := buf[:c.slotWidth]
	n := fill(query, sig)
	if v := c.probeArray(query); v != 0 {
		return c.count(v)
	}
	return c.count(c.probeHash(query, n))
}

// FillQuery writes sig into the query slot for a later ProbeQuery or
// InsertQuery.
func (c *Cache) FillQuery(sig btype.Signature) error {
	if c.Destroyed() {
		return ErrDestroyed
	}
	if err := c.checkSignature(sig); err != nil {
		return err
	}
	fill(c.query(), sig)
	return nil
}

// ProbeQuery probes the array region with the query slot.
func (c *Cache) ProbeQuery() uint16 {
	if c.Destroyed() || c.query()[0] == btype.Null {
		return c.count(0)
	}
	return c.count(c.probeArray(c.query()))
}

// InsertQuery stores the query slot at the one based array index.
func (c *Cache) InsertQuery(index int, fnID int) error {
	if c.Destroyed() {
		return ErrDestroyed
	}
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if err := checkFnID(fnID); err != nil {
		return err
	}
	query := c.query()
	if query[0] == btype.Null {
		return fmt.Errorf("%w: query slot is empty", ErrConfiguration)
	}
	put(c.arraySlot(index-1), query, uint16(fnID))
	return nil
}

// Query answers a copy of the raw query slot.
func (c *Cache) Query() []Word {
	if c.Destroyed() {
		return nil
	}
	return append([]Word(nil), c.query()...)
}

// Slot answers a copy of the raw words of the one based array slot index.
func (c *Cache) Slot(index int) ([]Word, error) {
	if c.Destroyed() {
		return nil, ErrDestroyed
	}
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	return append([]Word(nil), c.arraySlot(index-1)...), nil
}

// QueryTypes decodes the query slot back into a signature.
func (c *Cache) QueryTypes() (btype.Signature, error) {
	if c.Destroyed() {
		return nil, ErrDestroyed
	}
	return btype.SignatureFromWords(c.query())
}
