package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("Netflix $15.99")
	b := Key("Netflix $15.99")
	c := Key("Walmart $84.12")

	if a != b {
		t.Error("same text must derive the same key")
	}
	if a == c {
		t.Error("different texts must derive different keys")
	}
	if !strings.HasPrefix(a, "spendlens:v1:") {
		t.Errorf("key %q missing version prefix", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache must miss")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("got %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("len %d, want 1", c.Len())
	}

	if err := c.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("deleted key must miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("entry must expire after its TTL")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("len %d after clear, want 0", c.Len())
	}
}
