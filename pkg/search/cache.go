package search

import (
	"sync/atomic"

	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	lex     *lexicon.Lexicon
	pattern string
}

// Cache memoizes pattern results per lexicon snapshot. A nil *Cache is valid and
// never stores anything.
type Cache struct {
	groups *lru.Cache[cacheKey, Groups]
	hits   atomic.Int64
	misses atomic.Int64
	size   int
}

// CacheStats reports cache usage.
type CacheStats struct {
	Entries int
	Size    int
	Hits    int64
	Misses  int64
}

// NewCache returns a cache holding up to size pattern results, or nil when size is not
// positive.
func NewCache(size int) *Cache {
	if size <= 0 {
		return nil
	}
	groups, err := lru.New[cacheKey, Groups](size)
	if err != nil {
		log.Errorf("Error creating pattern cache: %v", err)
		return nil
	}
	return &Cache{groups: groups, size: size}
}

// Get returns the cached groups for a compiled pattern key. The result is shared and
// must not be modified.
func (c *Cache) Get(lex *lexicon.Lexicon, key string) (Groups, bool) {
	if c == nil {
		return nil, false
	}
	g, ok := c.groups.Get(cacheKey{lex: lex, pattern: key})
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return g, ok
}

// Add stores groups under a compiled pattern key.
func (c *Cache) Add(lex *lexicon.Lexicon, key string, g Groups) {
	if c == nil {
		return
	}
	if c.groups.Add(cacheKey{lex: lex, pattern: key}, g) {
		log.Debugf("Evicted oldest pattern from cache (size %d)", c.size)
	}
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.groups.Purge()
}

// Stats returns counters. A nil cache reports zeros.
func (c *Cache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return CacheStats{
		Entries: c.groups.Len(),
		Size:    c.size,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
