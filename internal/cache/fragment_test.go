package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestGetSetClear(t *testing.T) {
	c := NewTTLCache(time.Minute)
	key := IndexPageKey(1)

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	fragment := []byte(`{"posts":[]}`)
	c.Set(key, fragment)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(got, fragment) {
		t.Fatalf("cached fragment differs: %q", got)
	}

	c.Clear()
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss after Clear")
	}
}

func TestExpiry(t *testing.T) {
	c := NewTTLCache(50 * time.Millisecond)
	c.Set(IndexPageKey(1), []byte("stale"))

	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Get(IndexPageKey(1)); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestKeysAreDistinctPerPage(t *testing.T) {
	c := NewTTLCache(time.Minute)
	c.Set(IndexPageKey(1), []byte("one"))
	c.Set(IndexPageKey(2), []byte("two"))

	got, _ := c.Get(IndexPageKey(2))
	if string(got) != "two" {
		t.Fatalf("page 2 fragment = %q", got)
	}
}
