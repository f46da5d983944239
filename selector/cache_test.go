package selector_test

import (
	"testing"

	"github.com/on-the-ground/dispatch_ive_go/btype"
	"github.com/on-the-ground/dispatch_ive_go/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tn(id uint32) btype.T { return btype.MustNew(id, false) }

func ext(id uint32) btype.T { return btype.MustNew(btype.MaxNumT1Types+id, false) }

func sig(ts ...btype.T) btype.Signature { return btype.MustSignature(ts...) }

func TestNew_Ranges(t *testing.T) {
	for numArgs := selector.MinNumArgs; numArgs <= selector.MaxNumArgs; numArgs++ {
		for _, numSlots := range []int{1, 2, 64, 127, 128} {
			c, err := selector.New(numArgs, numSlots)
			require.NoError(t, err)
			assert.Equal(t, numArgs, c.NumArgs())
			assert.Equal(t, 1+2*numArgs, c.SlotWidth())
			assert.Equal(t, numSlots, c.NumSlots())
			assert.Equal(t, 0, c.HashNSlots())
			assert.Equal(t, 1, c.NextFreeIndex())
		}
	}

	for _, bad := range [][2]int{{0, 1}, {17, 1}, {-1, 4}, {1, 0}, {1, 129}, {16, 256}} {
		_, err := selector.New(bad[0], bad[1])
		assert.ErrorIsf(t, err, selector.ErrConfiguration, "numArgs %d numSlots %d", bad[0], bad[1])
	}

	_, err := selector.New(17, 1)
	assert.Contains(t, err.Error(), "numArgs 17 is not within {1, 16}")
	_, err = selector.New(1, 500)
	assert.Contains(t, err.Error(), "numSlots 500 is not within {1, 128}")
	_, err = selector.NewWithHash(1, 1, selector.MaxHashNSlots+1)
	assert.ErrorIs(t, err, selector.ErrConfiguration)
}

func TestInsertLookup_HitMissIdempotent(t *testing.T) {
	c, err := selector.New(2, 4)
	require.NoError(t, err)

	index := c.NextFreeIndex()
	require.Equal(t, 1, index)
	require.NoError(t, c.Insert(index, sig(tn(5), tn(9)), 42))

	before, err := c.Slot(index)
	require.NoError(t, err)

	assert.Equal(t, uint16(42), c.Probe(sig(tn(5), tn(9))))
	assert.Equal(t, uint16(0), c.Probe(sig(tn(5), tn(8))))
	assert.Equal(t, uint16(0), c.Probe(sig(tn(5))))
	assert.Equal(t, uint16(42), c.Probe(sig(tn(5), tn(9))))

	after, err := c.Slot(index)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, c.NextFreeIndex())
}

func TestInsert_SlotLayout(t *testing.T) {
	c, err := selector.New(2, 1)
	require.NoError(t, err)

	fnID := 0xABCD
	require.NoError(t, c.Insert(1, sig(tn(5)), fnID))
	slot, err := c.Slot(1)
	require.NoError(t, err)
	require.Len(t, slot, 5)

	assert.Equal(t, btype.Word(0xABCD&0xFFE0|1), slot[0])
	assert.Equal(t, btype.Word(5), slot[1])
	assert.Equal(t, btype.Null, slot[2])
	assert.Equal(t, btype.Null, slot[3])
	assert.Equal(t, btype.Word((0xABCD&0x1F)<<3), slot[4])
	assert.Equal(t, uint16(0xABCD), c.Probe(sig(tn(5))))
}

func TestLookup_FullCapacitySignature(t *testing.T) {
	c, err := selector.New(2, 4)
	require.NoError(t, err)

	full := sig(ext(1), btype.MustNew(2*btype.MaxNumT1Types+7, false))
	require.Equal(t, 4, full.NumWords())

	// every payload bit of the last word set
	require.NoError(t, c.Insert(1, full, 0x001F))
	require.NoError(t, c.Insert(2, sig(ext(1), ext(7)), 0xFFFF))

	assert.Equal(t, uint16(0x001F), c.Probe(full))
	assert.Equal(t, uint16(0xFFFF), c.Probe(sig(ext(1), ext(7))))
	assert.Equal(t, uint16(0), c.Probe(sig(ext(1), btype.MustNew(3*btype.MaxNumT1Types+7, false))))
}

func TestInsert_Rejects(t *testing.T) {
	c, err := selector.New(2, 4)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Insert(0, sig(tn(1)), 1), selector.ErrConfiguration)
	assert.ErrorIs(t, c.Insert(5, sig(tn(1)), 1), selector.ErrConfiguration)
	assert.ErrorIs(t, c.Insert(1, sig(tn(1)), -1), selector.ErrConfiguration)
	assert.ErrorIs(t, c.Insert(1, sig(tn(1)), selector.MaxFnID+1), selector.ErrConfiguration)
	assert.ErrorIs(t, c.Insert(1, sig(tn(1), tn(2), tn(3)), 1), selector.ErrConfiguration)

	assert.ErrorIs(t, c.Insert(1, btype.Signature{{TN1: 5, TN2: 3}}, 1), btype.ErrSignature)

	err = c.Insert(1, sig(tn(1)), 70000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "functionId 70000 is not within {0, 65535}")
	assert.Equal(t, 1, c.NextFreeIndex())
}

func TestNextFreeIndex_Full(t *testing.T) {
	c, err := selector.New(1, 3)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		idx := c.NextFreeIndex()
		require.Equal(t, i, idx)
		require.NoError(t, c.Insert(idx, sig(tn(uint32(i))), i))
	}
	assert.Equal(t, 0, c.NextFreeIndex())
	assert.Equal(t, 3, c.Filled())
	for i := 1; i <= 3; i++ {
		assert.Equal(t, uint16(i), c.Probe(sig(tn(uint32(i)))))
	}
}

func TestLookup_StopsAtFirstEmptySlot(t *testing.T) {
	c, err := selector.New(1, 4)
	require.NoError(t, err)
	// slot 2 left empty: slot 3 is never reached
	require.NoError(t, c.Insert(1, sig(tn(1)), 1))
	require.NoError(t, c.Insert(3, sig(tn(3)), 3))

	assert.Equal(t, uint16(1), c.Probe(sig(tn(1))))
	assert.Equal(t, uint16(0), c.Probe(sig(tn(3))))
	assert.Equal(t, 2, c.NextFreeIndex())
}

func TestQuerySlot(t *testing.T) {
	c, err := selector.New(3, 4)
	require.NoError(t, err)

	q := sig(tn(5), ext(2), tn(9))
	require.NoError(t, c.FillQuery(q))
	assert.Equal(t, uint16(0), c.ProbeQuery())

	back, err := c.QueryTypes()
	require.NoError(t, err)
	assert.True(t, q.Equal(back))

	raw := c.Query()
	assert.Len(t, raw, c.SlotWidth())
	assert.Equal(t, btype.Word(3), raw[0])

	idx := c.NextFreeIndex()
	require.NoError(t, c.InsertQuery(idx, 7))
	assert.Equal(t, uint16(7), c.ProbeQuery())
	assert.Equal(t, uint16(7), c.Probe(q))

	assert.ErrorIs(t, c.FillQuery(sig(tn(1), tn(2), tn(3), tn(4))), selector.ErrConfiguration)

	empty, err := selector.New(1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, empty.InsertQuery(1, 1), selector.ErrConfiguration)
}

func TestHashRegion(t *testing.T) {
	c, err := selector.NewWithHash(2, 1, 3)
	require.NoError(t, err)
	require.NoError(t, c.Insert(1, sig(tn(1), tn(1)), 1))
	require.Equal(t, 0, c.NextFreeIndex())

	require.NoError(t, c.AtHashPut(sig(tn(2), tn(2)), 2))
	require.NoError(t, c.AtHashPut(sig(tn(3), ext(3)), 3))
	require.NoError(t, c.AtHashPut(sig(tn(4)), 4))
	assert.Equal(t, 3, c.HashFilled())

	// Probe only sees the array region
	assert.Equal(t, uint16(0), c.Probe(sig(tn(2), tn(2))))
	assert.Equal(t, uint16(2), c.ProbeHash(sig(tn(2), tn(2))))
	assert.Equal(t, uint16(1), c.Lookup(sig(tn(1), tn(1))))
	assert.Equal(t, uint16(3), c.Lookup(sig(tn(3), ext(3))))
	assert.Equal(t, uint16(4), c.Lookup(sig(tn(4))))
	assert.Equal(t, uint16(0), c.Lookup(sig(tn(5))))

	// replacing an existing signature does not need a free slot
	require.NoError(t, c.AtHashPut(sig(tn(4)), 44))
	assert.Equal(t, uint16(44), c.Lookup(sig(tn(4))))

	assert.ErrorIs(t, c.AtHashPut(btype.Signature{{TN1: 5, TN2: 3}}, 5), btype.ErrSignature)
	assert.ErrorIs(t, c.AtHashPut(sig(tn(6)), 6), selector.ErrFull)

	noHash, err := selector.New(1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, noHash.AtHashPut(sig(tn(1)), 1), selector.ErrFull)
	assert.Equal(t, uint16(0), noHash.ProbeHash(sig(tn(1))))
}

func TestDestroy(t *testing.T) {
	c, err := selector.New(1, 2)
	require.NoError(t, err)
	require.NoError(t, c.Insert(1, sig(tn(1)), 1))

	require.NoError(t, c.Destroy())
	assert.True(t, c.Destroyed())
	assert.ErrorIs(t, c.Destroy(), selector.ErrDestroyed)
	assert.Equal(t, uint16(0), c.Probe(sig(tn(1))))
	assert.Equal(t, 0, c.NextFreeIndex())
	assert.ErrorIs(t, c.Insert(1, sig(tn(1)), 1), selector.ErrDestroyed)
	assert.ErrorIs(t, c.FillQuery(sig(tn(1))), selector.ErrDestroyed)
	_, err = c.QueryTypes()
	assert.ErrorIs(t, err, selector.ErrDestroyed)
}

func TestStats(t *testing.T) {
	c, err := selector.New(1, 2)
	require.NoError(t, err)
	require.NoError(t, c.Insert(1, sig(tn(1)), 1))

	c.Probe(sig(tn(1)))
	c.Probe(sig(tn(1)))
	c.Probe(sig(tn(2)))

	s := c.Stats()
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.ArrayFilled)
	assert.InDelta(t, 66.67, s.HitRate(), 0.01)
	assert.False(t, s.Span.End().Before(s.Span.Start()))

	c.ResetStats()
	assert.Equal(t, float64(0), c.Stats().HitRate())
}
