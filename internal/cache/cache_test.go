package cache

import (
	"testing"
	"time"
)

func TestCache_ExpiresEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c := New[string]()
	c.now = func() time.Time { return now }

	c.SetWithTTL("a", "1", time.Minute)
	c.SetWithTTL("b", "2", 10*time.Second)

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected a=1, got %q ok=%v", v, ok)
	}

	now = now.Add(30 * time.Second)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to have expired")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to still be live")
	}

	now = now.Add(time.Minute)

	if removed := c.Sweep(); removed != 1 {
		t.Fatalf("got %d removed, want 1", removed)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_NonPositiveTTLIsIgnored(t *testing.T) {
	c := New[int]()

	c.SetWithTTL("x", 1, 0)

	if _, ok := c.Get("x"); ok {
		t.Fatalf("entry with zero ttl should not be stored")
	}
}
