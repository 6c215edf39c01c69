package text

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized measurements.
const DefaultCacheSize = 1 << 14

type widthKey struct {
	s string
	f Font
}

// CachedMeasurer memoizes another Measurer in a bounded LRU cache. It is
// safe for concurrent use.
type CachedMeasurer struct {
	inner  Measurer
	widths *lru.Cache[widthKey, float64]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedMeasurer wraps inner. A non-positive limit uses
// DefaultCacheSize.
func NewCachedMeasurer(inner Measurer, limit int) *CachedMeasurer {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	widths, err := lru.New[widthKey, float64](limit)
	if err != nil {
		// lru.New fails only for a non-positive size.
		panic(err)
	}
	return &CachedMeasurer{inner: inner, widths: widths}
}

func (c *CachedMeasurer) TextWidth(s string, f Font) float64 {
	key := widthKey{s, f}
	if w, ok := c.widths.Get(key); ok {
		c.hits.Add(1)
		return w
	}
	c.misses.Add(1)
	w := c.inner.TextWidth(s, f)
	c.widths.Add(key, w)
	return w
}

// Stats returns the hit and miss counts.
func (c *CachedMeasurer) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
