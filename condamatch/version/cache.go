package version

import "sync"

// orderCache memoizes parsed versions by their raw string for the life of
// the process. Parsing is a pure function of its input, so concurrent
// construction of the same key is safe to race: the first write wins and any
// racing result is value-identical. Only successful parses are stored.
type orderCache struct {
	lock   sync.RWMutex
	orders map[string]*Order
}

var cache = newOrderCache()

func newOrderCache() *orderCache {
	return &orderCache{
		orders: make(map[string]*Order),
	}
}

func (c *orderCache) get(raw string) *Order {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.orders[raw]
}

// add stores the order under the given key if no entry exists yet, and
// returns the entry that ended up in the cache.
func (c *orderCache) add(raw string, order *Order) *Order {
	c.lock.Lock()
	defer c.lock.Unlock()
	if existing, exists := c.orders[raw]; exists {
		return existing
	}
	c.orders[raw] = order
	return order
}

// reset drops all cached entries (for testing only).
func (c *orderCache) reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.orders = make(map[string]*Order)
}
