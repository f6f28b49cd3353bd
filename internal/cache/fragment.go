// Package cache memoizes rendered feed fragments for a bounded time. The
// cache is an optimization only: callers must render normally whenever a
// lookup misses, so losing the backend never breaks a page.
package cache

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// FragmentCache stores rendered page fragments keyed by a stable name.
type FragmentCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, fragment []byte)
	Clear()
}

// IndexPageKey names the cached global-feed fragment for one page.
func IndexPageKey(page int) string {
	return "index_page:" + strconv.Itoa(page)
}

// TTLCache is an in-process FragmentCache with a fixed expiry.
type TTLCache struct {
	store *gocache.Cache
}

// NewTTLCache creates a fragment cache whose entries expire after ttl.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *TTLCache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	fragment, ok := v.([]byte)
	return fragment, ok
}

func (c *TTLCache) Set(key string, fragment []byte) {
	c.store.Set(key, fragment, gocache.DefaultExpiration)
}

// Clear drops every cached fragment. Called on post creation, edit and
// deletion so a follow-up read never serves a stale feed.
func (c *TTLCache) Clear() {
	c.store.Flush()
}
