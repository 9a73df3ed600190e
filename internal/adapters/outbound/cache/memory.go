package cache

import (
	"context"
	"sync"

	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/outbound"
)

// MemoryCache mirrors persisted orders in-process, keyed by order id. Every
// read hands out a snapshot copy so callers can never mutate the mirror
// through a returned order.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[int]domain.Order
	stats *Stats
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[int]domain.Order),
		stats: NewStats(),
	}
}

func (c *MemoryCache) Get(_ context.Context, orderID int) (domain.Order, bool) {
	c.mu.RLock()
	o, ok := c.store[orderID]
	c.mu.RUnlock()

	if ok {
		c.stats.IncHit()
		return o.Clone(), true
	}

	c.stats.IncMiss()
	return domain.Order{}, false
}

func (c *MemoryCache) Set(_ context.Context, order domain.Order) {
	if order.ID <= 0 {
		return
	}
	c.mu.Lock()
	c.store[order.ID] = order.Clone()
	c.mu.Unlock()
}

func (c *MemoryCache) BulkSet(_ context.Context, orders []domain.Order) {
	c.mu.Lock()
	for _, o := range orders {
		if o.ID <= 0 {
			continue
		}
		c.store[o.ID] = o.Clone()
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, orderID int) {
	c.mu.Lock()
	delete(c.store, orderID)
	c.mu.Unlock()
}

func (c *MemoryCache) Len(_ context.Context) int {
	c.mu.RLock()
	n := len(c.store)
	c.mu.RUnlock()
	return n
}

func (c *MemoryCache) Stats() (hits uint64, misses uint64) {
	return c.stats.Snapshot()
}

var _ outbound.OrderCache = (*MemoryCache)(nil)
