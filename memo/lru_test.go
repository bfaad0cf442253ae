package memo

import "testing"

func TestLRUCache_SeenMarksRepeatsAndEvicts(t *testing.T) {
	cache := NewLRUCache(3)

	h1, seen := cache.Seen([]byte("a"))
	if seen {
		t.Errorf("first sighting of %q should report unseen", "a")
	}
	h1Again, seen := cache.Seen([]byte("a"))
	if !seen {
		t.Errorf("repeat sighting of %q should report seen", "a")
	}
	if h1 != h1Again {
		t.Errorf("hash for the same key must be stable, got %v and %v", h1, h1Again)
	}

	cache.Seen([]byte("b"))
	cache.Seen([]byte("c"))

	stats := cache.Stats()
	if stats.Size > stats.MaxSize {
		t.Errorf("cache size %d exceeds max size %d", stats.Size, stats.MaxSize)
	}

	// Pushes "a" out if it's the least-recently-seen entry.
	cache.Seen([]byte("d"))
	stats = cache.Stats()
	if stats.Size > stats.MaxSize {
		t.Errorf("cache size %d exceeds max size %d after eviction", stats.Size, stats.MaxSize)
	}
}

func TestLRUCache_DistinctKeysDistinctHashes(t *testing.T) {
	cache := NewLRUCache(10)

	h1, _ := cache.Seen([]byte("x"))
	h2, _ := cache.Seen([]byte("y"))
	if h1 == h2 {
		t.Errorf("distinct keys hashed to the same value: %v", h1)
	}
}
