// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides a typed LRU with hit/miss accounting.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a size bounded cache of V by K. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	inner     *lru.Cache
	hit, miss atomic.Int64
	rate      atomic.Int32 // hit permille seen by the last Stats call
}

// NewLRU creates a cache holding at most size entries.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	inner, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{inner: inner}, nil
}

func (c *LRU[K, V]) Get(key K) (v V, ok bool) {
	if raw, found := c.inner.Get(key); found {
		return raw.(V), true
	}
	return v, false
}

func (c *LRU[K, V]) Add(key K, v V) {
	c.inner.Add(key, v)
}

func (c *LRU[K, V]) Contains(key K) bool {
	return c.inner.Contains(key)
}

// GetOrLoad returns the cached value of key, calling load and caching its result on a miss.
// Failed loads are not cached.
func (c *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		c.hit.Add(1)
		return v, nil
	}
	c.miss.Add(1)
	v, err := load(key)
	if err != nil {
		return v, err
	}
	c.Add(key, v)
	return v, nil
}

// Stats returns the hit and miss counters, and whether the hit rate moved since the
// previous call.
func (c *LRU[K, V]) Stats() (changed bool, hit, miss int64) {
	hit, miss = c.hit.Load(), c.miss.Load()

	var rate int32
	if lookups := hit + miss; lookups > 0 {
		rate = int32(hit * 1000 / lookups)
	}
	return c.rate.Swap(rate) != rate, hit, miss
}
