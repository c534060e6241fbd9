package embedding

import (
	"container/list"
	"crypto/sha256"
	"sync"

	"github.com/pgvector/pgvector-go"
)

// cacheKey is the 16-byte truncated SHA-256 content digest spec.md §4.3
// specifies ("Content hash (cryptographic, 16-byte digest)").
type cacheKey [16]byte

func hashText(text string) cacheKey {
	sum := sha256.Sum256([]byte(text))
	var key cacheKey
	copy(key[:], sum[:16])
	return key
}

type cacheEntry struct {
	key   cacheKey
	value pgvector.Vector
}

// lruCache is a bounded content-hash -> vector cache. No example in the
// retrieval pack vendors a third-party LRU implementation, so this is
// hand-rolled over container/list — see DESIGN.md.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	index    map[cacheKey]*list.Element
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[cacheKey]*list.Element),
	}
}

func (c *lruCache) get(key cacheKey) (pgvector.Vector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return pgvector.Vector{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key cacheKey, value pgvector.Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&cacheEntry{key: key, value: value})
	c.index[key] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
