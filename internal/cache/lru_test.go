package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(maxSize int, ttl time.Duration) (*LRUCache[string], *clock) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](maxSize, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("a", "1")
	c.Set("a", "2")
	if v, ok := c.Get("a"); !ok || v != "2" {
		t.Fatalf("Get(a) = %q, %v; want 2, true", v, ok)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a was used recently and should remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	clk.t = clk.t.Add(30 * time.Second)
	c.Set("b", "3")
	clk.t = clk.t.Add(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Errorf("CleanExpired removed %d, want 0 (a was already dropped by Get)", n)
	}
	clk.t = clk.t.Add(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired removed %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d, want 0", c.Size())
	}
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size after Clear = %d", c.Size())
	}
	c.Set("c", "3")
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Error("cache should be usable after Clear")
	}
}

func TestManager_InvalidateAll(t *testing.T) {
	a := NewLRUCache[int](4, time.Minute)
	b := NewLRUCache[string](4, time.Minute)
	a.Set("x", 1)
	b.Set("y", "z")

	m := NewManager()
	m.Register(a)
	m.Register(b)
	m.InvalidateAll()

	if a.Size() != 0 || b.Size() != 0 {
		t.Fatalf("sizes after InvalidateAll = %d, %d", a.Size(), b.Size())
	}
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](1, time.Millisecond))
	m.StartCleanup(time.Millisecond)
	m.StartCleanup(time.Millisecond)

	m.Stop()
	m.Stop()
}

func TestManager_StopWithoutStart(t *testing.T) {
	NewManager().Stop()
}

func TestManager_SetIfCurrent(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	m := NewManager()
	m.Register(c)

	gen := m.Generation()
	if !m.SetIfCurrent(gen, func() { c.Set("net", 1) }) {
		t.Fatal("fill in the current generation should run")
	}

	stale := m.Generation()
	m.InvalidateAll()
	if m.SetIfCurrent(stale, func() { c.Set("net", 2) }) {
		t.Fatal("fill from before an invalidation should be skipped")
	}
	if _, ok := c.Get("net"); ok {
		t.Error("stale value reached the cache")
	}
	if m.Generation() != stale+1 {
		t.Errorf("Generation = %d, want %d", m.Generation(), stale+1)
	}
}
