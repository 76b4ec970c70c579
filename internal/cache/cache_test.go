package cache

import (
	"testing"
	"time"
)

type report struct{ settlements int }

func TestTTL(t *testing.T) {
	c := New[*report](time.Minute)

	if _, ok := c.Get("tour-1"); ok {
		t.Fatal("Get on empty cache should miss")
	}

	c.Set("tour-1", &report{settlements: 2})
	got, ok := c.Get("tour-1")
	if !ok || got.settlements != 2 {
		t.Fatalf("Get(tour-1) = %v, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	c.Delete("tour-1")
	if _, ok := c.Get("tour-1"); ok {
		t.Error("Get after Delete should miss")
	}
}

func TestTTL_Expires(t *testing.T) {
	c := New[string](20 * time.Millisecond)
	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestTTL_Disabled(t *testing.T) {
	c := New[string](0)
	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Error("disabled cache should never hit")
	}
	c.Delete("k")
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}
