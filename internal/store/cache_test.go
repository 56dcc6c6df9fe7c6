package store

import "testing"

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	l := NewLRU[string, int](2, nil)
	l.Put("a", 1)
	l.Put("b", 2)
	l.Get("a") // touch a, making b the LRU entry
	l.Put("c", 3)

	if _, ok := l.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if v, ok := l.Get("a"); !ok || v != 1 {
		t.Error("expected a to survive")
	}
	if v, ok := l.Get("c"); !ok || v != 3 {
		t.Error("expected c to be present")
	}
}

func TestLRU_DeleteAndClear(t *testing.T) {
	l := NewLRU[string, int](4, nil)
	l.Put("a", 1)
	l.Put("b", 2)

	if !l.Delete("a") {
		t.Error("expected Delete(a) to succeed")
	}
	if _, ok := l.Get("a"); ok {
		t.Error("a should be gone")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got len=%d", l.Len())
	}
}

func TestResultCache_EvictsByByteBudget(t *testing.T) {
	c := NewResultCache(1) // 1MB budget
	big := make([]byte, 600*1024)

	c.Put("first", CachedResult{Output: big})
	c.Put("second", CachedResult{Output: big})
	c.Put("third", CachedResult{Output: big})

	if _, ok := c.Get("first"); ok {
		t.Error("expected first entry to be evicted once over budget")
	}
	if _, ok := c.Get("third"); !ok {
		t.Error("expected most recent entry to survive")
	}
}
