package registry

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// ArchiveCheckCache memoizes "{namespace}/{digest} -> exists" so a
// build that visits the same dependency repeatedly doesn't re-probe
// the backend each time. TTL = 0 disables caching entirely (every
// Check reads through). Both positive and negative results are cached;
// a successful Push explicitly invalidates so a negative result never
// outlives the object it described.
type ArchiveCheckCache struct {
	ttl   time.Duration
	cache *lru.LRU[string, bool]
}

// defaultCacheCapacity bounds the cache's entry count as a side effect
// of using an LRU container; the intended eviction policy is TTL-only
// with no explicit memory bound, so this value is generous rather than
// load-bearing (see DESIGN.md open questions).
const defaultCacheCapacity = 100_000

func NewArchiveCheckCache(ttl time.Duration) *ArchiveCheckCache {
	c := &ArchiveCheckCache{ttl: ttl}
	if ttl > 0 {
		c.cache = lru.NewLRU[string, bool](defaultCacheCapacity, nil, ttl)
	}
	return c
}

func cacheKey(namespace, digest string) string {
	return namespace + "/" + digest
}

// Get returns the cached result for (namespace, digest), if any and
// not yet expired.
func (c *ArchiveCheckCache) Get(namespace, digest string) (exists bool, ok bool) {
	if c.cache == nil {
		return false, false
	}
	return c.cache.Get(cacheKey(namespace, digest))
}

// Set records a Check result.
func (c *ArchiveCheckCache) Set(namespace, digest string, exists bool) {
	if c.cache == nil {
		return
	}
	c.cache.Add(cacheKey(namespace, digest), exists)
}

// Invalidate drops any cached entry for (namespace, digest), called
// after a successful Push so the next Check reflects reality
// immediately rather than waiting out a stale negative TTL.
func (c *ArchiveCheckCache) Invalidate(namespace, digest string) {
	if c.cache == nil {
		return
	}
	c.cache.Remove(cacheKey(namespace, digest))
}
