package cache

import (
	"testing"
	"time"
)

func TestLRU_Basic(t *testing.T) {
	c := NewLRU(3, time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if val, ok := c.Get("a"); !ok || val != 1 {
		t.Errorf("expected 1, got %v", val)
	}

	// "b" is now the least recently used; adding one more evicts it.
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}
	if c.Len() != 3 {
		t.Errorf("expected length 3, got %d", c.Len())
	}
}

func TestLRU_TTL(t *testing.T) {
	c := NewLRU(10, 10*time.Millisecond)

	c.Set("key", "value")
	if val, ok := c.Get("key"); !ok || val != "value" {
		t.Error("expected value to be present")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("expected value to be expired")
	}
}

func TestLRU_Delete(t *testing.T) {
	c := NewLRU(10, time.Hour)

	c.Set("key", "value")
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Error("expected value to be deleted")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}
