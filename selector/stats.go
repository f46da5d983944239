package selector

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// Stats is a snapshot of a cache's counters.
type Stats struct {
	Hits        uint64
	Misses      uint64
	ArrayFilled int
	HashFilled  int

	// Span runs from the creation of the cache to the snapshot.
	Span timespan.TimeSpan
}

// HitRate returns the hit rate as a percentage (0-100).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		ArrayFilled: c.Filled(),
		HashFilled:  c.HashFilled(),
		Span:        timespan.BetweenTimes(c.created, time.Now()),
	}
}

// ResetStats zeroes the hit and miss counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}
