package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, int](ttl)
	c.now = clock.Now
	return c, clock
}

func TestNew(t *testing.T) {
	ttl := 5 * time.Minute
	cache := New[string, int](ttl)

	if cache == nil {
		t.Fatal("New returned nil")
	}
	if cache.ttl != ttl {
		t.Errorf("TTL mismatch: got %v, want %v", cache.ttl, ttl)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestSetAndGet(t *testing.T) {
	cache, _ := newTestCache(time.Minute)

	cache.Set("key1", 42)

	value, ok := cache.Get("key1")
	if !ok {
		t.Fatal("Get returned ok=false for existing key")
	}
	if value != 42 {
		t.Errorf("Get returned wrong value: got %d, want 42", value)
	}

	if _, ok := cache.Get("nonexistent"); ok {
		t.Error("Get returned ok=true for non-existent key")
	}
}

func TestPerEntryExpiry(t *testing.T) {
	cache, clock := newTestCache(time.Minute)

	cache.Set("old", 1)
	clock.Advance(40 * time.Second)
	cache.Set("new", 2)
	clock.Advance(20 * time.Second)

	if _, ok := cache.Get("old"); ok {
		t.Error("old entry should have expired")
	}
	if v, ok := cache.Get("new"); !ok || v != 2 {
		t.Errorf("Get(new) = %d, %v, want 2, true", v, ok)
	}
}

func TestSetRestartsTTL(t *testing.T) {
	cache, clock := newTestCache(time.Minute)

	cache.Set("key", 1)
	clock.Advance(50 * time.Second)
	cache.Set("key", 2)
	clock.Advance(50 * time.Second)

	if v, ok := cache.Get("key"); !ok || v != 2 {
		t.Errorf("Get(key) = %d, %v, want 2, true", v, ok)
	}
}

func TestNoExpiry(t *testing.T) {
	cache, clock := newTestCache(0)

	cache.Set("key", 1)
	clock.Advance(24 * time.Hour)

	if _, ok := cache.Get("key"); !ok {
		t.Error("entry should not expire with zero TTL")
	}
}

func TestPrune(t *testing.T) {
	cache, clock := newTestCache(time.Minute)

	cache.Set("a", 1)
	cache.Set("b", 2)
	clock.Advance(30 * time.Second)
	cache.Set("c", 3)
	clock.Advance(45 * time.Second)

	if got := cache.Len(); got != 3 {
		t.Errorf("Len() before Prune = %d, want 3", got)
	}
	if removed := cache.Prune(); removed != 2 {
		t.Errorf("Prune() = %d, want 2", removed)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("Len() after Prune = %d, want 1", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	cache := New[string, int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%10)
				cache.Set(key, id*1000+j)
				cache.Get(key)
				if j%25 == 0 {
					cache.Prune()
				}
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 10 {
		t.Errorf("Len() = %d, want 10", cache.Len())
	}
}
