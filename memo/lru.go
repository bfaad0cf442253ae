package memo

import (
	"container/list"
	"sync"

	"github.com/dgryski/go-farm"
)

// LRUCache bounds memory use for long verification runs by evicting the
// least-recently-seen key once maxSize entries are tracked. Eviction
// only means a future repeat of that key is re-explored by the
// checker, not a correctness issue (spec.md §9: any memoization must
// only ever make the search faster, never change the verdict).
type LRUCache struct {
	mu        sync.Mutex
	entries   map[Hash]*list.Element
	evictList *list.List
	maxSize   int
}

func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &LRUCache{
		entries:   make(map[Hash]*list.Element),
		evictList: list.New(),
		maxSize:   maxSize,
	}
}

func (c *LRUCache) Seen(key []byte) (Hash, bool) {
	h := Hash(farm.Hash64(key))

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[h]; ok {
		c.evictList.MoveToFront(elem)
		return h, true
	}

	elem := c.evictList.PushFront(h)
	c.entries[h] = elem
	if c.evictList.Len() > c.maxSize {
		oldest := c.evictList.Back()
		if oldest != nil {
			c.evictList.Remove(oldest)
			delete(c.entries, oldest.Value.(Hash))
		}
	}
	return h, false
}

// Stats reports current cache occupancy.
type Stats struct {
	Size    int
	MaxSize int
}

func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Size: len(c.entries), MaxSize: c.maxSize}
}
