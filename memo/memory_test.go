package memo

import "testing"

func TestMemoryCache_SeenIsIdempotent(t *testing.T) {
	cache := NewMemoryCache()

	_, seen := cache.Seen([]byte("key"))
	if seen {
		t.Fatalf("first Seen call should report unseen")
	}

	for i := 0; i < 3; i++ {
		_, seen := cache.Seen([]byte("key"))
		if !seen {
			t.Fatalf("subsequent Seen calls should report seen")
		}
	}
}
