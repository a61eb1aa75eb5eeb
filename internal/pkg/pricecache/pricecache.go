// Package pricecache provides a small TTL cache for price quotes so that
// hot read paths do not recompute circulating supply on every request. The
// cache is explicit and owned by its caller, never ambient process state.
package pricecache

import (
	"sync"
	"time"

	"stock-arcade/internal/economy"
	"stock-arcade/internal/pkg/clock"
)

// Cache holds the most recent quote for a bounded time-to-live.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clk     clock.Clock
	quote   economy.Quote
	savedAt time.Time
	valid   bool
}

// New creates a Cache with the given TTL. A zero or negative TTL disables
// caching entirely, which is what tests use to force recomputation.
func New(ttl time.Duration, clk clock.Clock) *Cache {
	return &Cache{ttl: ttl, clk: clk}
}

// Get returns the cached quote if it is still fresh.
func (c *Cache) Get() (economy.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || c.ttl <= 0 {
		return economy.Quote{}, false
	}
	if c.clk.Now().Sub(c.savedAt) >= c.ttl {
		c.valid = false
		return economy.Quote{}, false
	}
	return c.quote, true
}

// Put stores a freshly computed quote.
func (c *Cache) Put(q economy.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quote = q
	c.savedAt = c.clk.Now()
	c.valid = true
}

// Invalidate drops the cached quote. Called after writes that move the
// circulating supply by a meaningful amount.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
