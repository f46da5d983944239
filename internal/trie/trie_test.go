package trie_test

import (
	"testing"

	"github.com/on-the-ground/dispatch_ive_go/btype"
	"github.com/on-the-ground/dispatch_ive_go/internal/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(ids ...uint32) []btype.T {
	ts := make([]btype.T, len(ids))
	for i, id := range ids {
		ts[i] = btype.MustNew(id, false)
	}
	return ts
}

func TestTrie_BasicUsage(t *testing.T) {
	tr := trie.New[string](0)

	tr.Store(keys(1, 2, 3), "final")

	val, ok := tr.Load(keys(1, 2, 3))
	assert.True(t, ok)
	assert.Equal(t, "final", val)

	_, ok = tr.Load(keys(1, 2, 4))
	assert.False(t, ok)

	tr.Store(keys(1, 2, 3), "updated")
	val, ok = tr.Load(keys(1, 2, 3))
	assert.True(t, ok)
	assert.Equal(t, "updated", val)
	assert.Equal(t, 1, tr.Len())
}

func TestTrie_PrefixesAreDistinct(t *testing.T) {
	tr := trie.New[int](0)
	tr.Store(keys(1), 1)
	tr.Store(keys(1, 2), 12)
	tr.Store(nil, 0)

	v, ok := tr.Load(keys(1))
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = tr.Load(keys(1, 2))
	require.True(t, ok)
	assert.Equal(t, 12, v)
	v, ok = tr.Load(nil)
	require.True(t, ok)
	assert.Equal(t, 0, v)

	_, ok = tr.Load(keys(2))
	assert.False(t, ok)
}

func TestTrie_PointerFlagIsPartOfTheKey(t *testing.T) {
	tr := trie.New[string](0)
	tr.Store([]btype.T{btype.MustNew(5, false)}, "value")

	_, ok := tr.Load([]btype.T{btype.MustNew(5, true)})
	assert.False(t, ok)
}

func TestTrie_Rotation(t *testing.T) {
	tr := trie.New[int](2)
	tr.Store(keys(1), 1)
	tr.Store(keys(2), 2)
	// rotates: 1 and 2 now live in the older generation
	tr.Store(keys(3), 3)

	for _, id := range []uint32{1, 2, 3} {
		v, ok := tr.Load(keys(id))
		require.True(t, ok)
		assert.Equal(t, int(id), v)
	}

	tr.Store(keys(4), 4)
	// rotates again and drops the generation holding 1 and 2
	tr.Store(keys(5), 5)

	_, ok := tr.Load(keys(1))
	assert.False(t, ok)
	_, ok = tr.Load(keys(3))
	assert.True(t, ok)
	_, ok = tr.Load(keys(5))
	assert.True(t, ok)
}

func TestTrie_Range(t *testing.T) {
	tr := trie.New[int](0)
	tr.Store(keys(1), 1)
	tr.Store(keys(1, 2), 12)
	tr.Store(keys(3, 4, 5), 345)

	seen := map[int][]btype.T{}
	tr.Range(func(ks []btype.T, v int) bool {
		seen[v] = ks
		return true
	})
	assert.Len(t, seen, 3)
	assert.Equal(t, keys(1, 2), seen[12])
	assert.Equal(t, keys(3, 4, 5), seen[345])

	n := 0
	tr.Range(func([]btype.T, int) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}
