package trie

import (
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/dispatch_ive_go/btype"
)

// terminal keys the value of a node, so [T1] and [T1, T2] can both be stored.
type terminal struct{}

// Trie maps Type Identifier sequences to values. A bounded trie keeps two
// generations: once maxSize values went into the head generation, the other
// one is cleared and becomes the head. Loads look at both.
type Trie[O any] struct {
	mu      sync.Mutex // serializes rotation
	memos   [2]*sync.Map
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
}

// New answers an unbounded trie when maxSize is 0.
func New[O any](maxSize uint32) *Trie[O] {
	return &Trie[O]{
		memos:   [2]*sync.Map{{}, {}},
		maxSize: maxSize,
	}
}

func (t *Trie[O]) Load(keys []btype.T) (O, bool) {
	headIdx := t.headIdx.Load()
	if v, ok := load(t.memos[headIdx], keys); ok {
		return v.(O), true
	}
	if v, ok := load(t.memos[1-headIdx], keys); ok {
		return v.(O), true
	}
	var zero O
	return zero, false
}

func load(m *sync.Map, keys []btype.T) (any, bool) {
	for _, k := range keys {
		v, ok := m.Load(k)
		if !ok {
			return nil, false
		}
		m = v.(*sync.Map)
	}
	return m.Load(terminal{})
}

func (t *Trie[O]) traverse(m *sync.Map, keys []btype.T) *sync.Map {
	for _, k := range keys {
		v, _ := m.LoadOrStore(k, &sync.Map{})
		m = v.(*sync.Map)
	}
	return m
}

func (t *Trie[O]) Store(keys []btype.T, value O) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.maxSize > 0 && t.size.Load() >= t.maxSize {
		next := 1 - t.headIdx.Load()
		t.memos[next] = &sync.Map{}
		t.headIdx.Store(next)
		t.size.Store(0)
	}
	m := t.traverse(t.memos[t.headIdx.Load()], keys)
	if _, loaded := m.Swap(terminal{}, value); !loaded {
		t.size.Add(1)
	}
}

// Len counts the values of the head generation.
func (t *Trie[O]) Len() int { return int(t.size.Load()) }

// Range calls fn for every stored sequence, head generation first, until fn
// answers false. A sequence stored in both generations is visited twice.
func (t *Trie[O]) Range(fn func(keys []btype.T, value O) bool) {
	headIdx := t.headIdx.Load()
	for _, m := range []*sync.Map{t.memos[headIdx], t.memos[1-headIdx]} {
		if !walk(m, nil, fn) {
			return
		}
	}
}

func walk[O any](m *sync.Map, path []btype.T, fn func([]btype.T, O) bool) bool {
	cont := true
	m.Range(func(k, v any) bool {
		switch key := k.(type) {
		case terminal:
			cont = fn(append([]btype.T(nil), path...), v.(O))
		case btype.T:
			cont = walk(v.(*sync.Map), append(path, key), fn)
		}
		return cont
	})
	return cont
}
