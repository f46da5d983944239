package selector

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/dispatch_ive_go/btype"
)

// homeSlot hashes the used words of a query (prefix included, padding
// excluded) onto the hash region.
func (c *Cache) homeSlot(query []Word, n int) int {
	var buf [2 * (1 + 2*btype.MaxArgs)]byte
	for o, w := range query[:n] {
		binary.LittleEndian.PutUint16(buf[2*o:], w)
	}
	return int(xxhash.Sum64(buf[:2*n]) % uint64(c.hashNSlots))
}

func (c *Cache) probeHash(query []Word, n int) uint16 {
	if c.hashNSlots == 0 {
		return 0
	}
	h := int(c.hashNSlots)
	home := c.homeSlot(query, n)
	for k := 0; k < h; k++ {
		slot := c.hashSlot((home + k) % h)
		if slot[0] == btype.Null {
			return 0
		}
		if matches(query, slot) {
			return payload(slot)
		}
	}
	return 0
}

// AtHashPut stores sig with fnID in the hash region. A signature already
// present gets its function id replaced.
func (c *Cache) AtHashPut(sig btype.Signature, fnID int) error {
	if c.Destroyed() {
		return ErrDestroyed
	}
	if c.hashNSlots == 0 {
		return fmt.Errorf("%w: cache has no hash region", ErrFull)
	}
	if err := checkFnID(fnID); err != nil {
		return err
	}
	if err := c.checkSignature(sig); err != nil {
		return err
	}
	var buf [1 + 2*btype.MaxArgs]Word
	query := buf[:c.slotWidth]
	n := fill(query, sig)

	h := int(c.hashNSlots)
	home := c.homeSlot(query, n)
	for k := 0; k < h; k++ {
		slot := c.hashSlot((home + k) % h)
		if slot[0] == btype.Null || matches(query, slot) {
			put(slot, query[:n], uint16(fnID))
			return nil
		}
	}
	return fmt.Errorf("%w: all %d hash slots are taken", ErrFull, h)
}

// ProbeHash answers the function id stored for sig in the hash region, or 0.
func (c *Cache) ProbeHash(sig btype.Signature) uint16 {
	if c.Destroyed() || len(sig) < 1 || len(sig) > c.NumArgs() {
		return c.count(0)
	}
	var buf [1 + 2*btype.MaxArgs]Word
	query := buf[:c.slotWidth]
	n := fill(query, sig)
	return c.count(c.probeHash(query, n))
}

// HashFilled counts the filled hash slots.
func (c *Cache) HashFilled() int {
	if c.Destroyed() {
		return 0
	}
	n := 0
	for o := 0; o < int(c.hashNSlots); o++ {
		if c.hashSlot(o)[0] != btype.Null {
			n++
		}
	}
	return n
}
