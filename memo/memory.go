package memo

import (
	"sync"

	"github.com/dgryski/go-farm"
)

// MemoryCache is the simplest Cache: an unbounded map guarded by a
// mutex, hashed with the same farm.Hash64 the teacher's CAS layer uses
// for its content-addressed store.
type MemoryCache struct {
	mu   sync.Mutex
	seen map[Hash]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{seen: make(map[Hash]struct{})}
}

func (c *MemoryCache) Seen(key []byte) (Hash, bool) {
	h := Hash(farm.Hash64(key))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[h]; ok {
		return h, true
	}
	c.seen[h] = struct{}{}
	return h, false
}
