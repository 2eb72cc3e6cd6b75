package cache

import (
	"testing"
	"time"
)

func TestTTLCacheGetSet(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) = ok, want miss")
	}

	c.Set("a", 42)
	if v, ok := c.Get("a"); !ok || v != 42 {
		t.Errorf("Get(a) = (%d, %v), want (42, true)", v, ok)
	}

	// Overwrite
	c.Set("a", 7)
	if v, _ := c.Get("a"); v != 7 {
		t.Errorf("Get(a) after overwrite = %d, want 7", v)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	// Cleanup interval uzun tutulur — süre kontrolü Get'in kendisinde
	c := New[string, string](20*time.Millisecond, time.Hour)
	defer c.Close()

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry missing")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still readable")
	}
	// Fiziksel silme cleanup'a kalır; Len dolmuşları da sayar
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestTTLCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still readable")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Delete removed unrelated entry")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}
