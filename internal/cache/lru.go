package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/23skdu/tagmatch/internal/metrics"
)

type CacheItem[T any] struct {
	Key       uint64
	Value     T
	ExpiresAt time.Time
}

// LRU is a fixed-capacity least-recently-used cache with per-entry TTL.
// A zero or negative TTL disables expiry.
type LRU[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[uint64]*list.Element
	lru      *list.List

	// name labels the cache in metrics
	name string
}

func NewLRU[T any](capacity int, ttl time.Duration, name string) *LRU[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[T]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[uint64]*list.Element),
		lru:      list.New(),
		name:     name,
	}
}

func (c *LRU[T]) Get(key uint64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues(c.name).Inc()
		var zero T
		return zero, false
	}

	item := elem.Value.(*CacheItem[T])
	if c.ttl > 0 && time.Now().After(item.ExpiresAt) {
		c.removeElement(elem)
		metrics.CacheMissesTotal.WithLabelValues(c.name).Inc()
		var zero T
		return zero, false
	}

	c.lru.MoveToFront(elem)
	metrics.CacheHitsTotal.WithLabelValues(c.name).Inc()
	return item.Value, true
}

func (c *LRU[T]) Put(key uint64, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		item := elem.Value.(*CacheItem[T])
		item.Value = value
		item.ExpiresAt = time.Now().Add(c.ttl)
		return
	}

	item := &CacheItem[T]{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.capacity {
		c.removeElement(c.lru.Back())
		metrics.CacheEvictionsTotal.WithLabelValues(c.name).Inc()
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(c.lru.Len()))
}

// Len returns the number of entries, expired or not.
func (c *LRU[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear purges the cache
func (c *LRU[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Init()
	c.items = make(map[uint64]*list.Element)
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
}

func (c *LRU[T]) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*CacheItem[T]).Key)
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(c.lru.Len()))
}
