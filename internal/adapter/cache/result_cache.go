package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"abapseg/internal/domain"
	"abapseg/internal/port"
)

// ResultCache is a small LRU+TTL cache for segmentation results. Output
// depends only on the input unit, so entries never need invalidation beyond
// aging out.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	records   []domain.Record
	timestamp time.Time
}

func NewResultCache(maxSize int, ttl time.Duration) *ResultCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Key hashes the full unit: identity fields are part of every record, so two
// requests with identical code but different names must not share an entry.
func Key(unit domain.SourceUnit) string {
	h := sha256.New()
	h.Write([]byte(unit.PgmName))
	h.Write([]byte{0})
	h.Write([]byte(unit.IncName))
	h.Write([]byte{0})
	h.Write([]byte(unit.Code))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func (c *ResultCache) Get(unit domain.SourceUnit) ([]domain.Record, bool) {
	key := Key(unit)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}
	c.moveToEnd(key)
	return entry.records, true
}

func (c *ResultCache) Put(unit domain.SourceUnit, records []domain.Record) {
	key := Key(unit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{records: records, timestamp: time.Now()}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = &cacheEntry{records: records, timestamp: time.Now()}
	c.order = append(c.order, key)
}

func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ResultCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ResultCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedSegmenter fronts a segmenter with a ResultCache.
type CachedSegmenter struct {
	segmenter port.Segmenter
	cache     *ResultCache
}

func NewCachedSegmenter(segmenter port.Segmenter, cache *ResultCache) *CachedSegmenter {
	return &CachedSegmenter{segmenter: segmenter, cache: cache}
}

func (s *CachedSegmenter) Segment(unit domain.SourceUnit) []domain.Record {
	if records, hit := s.cache.Get(unit); hit {
		return records
	}
	records := s.segmenter.Segment(unit)
	s.cache.Put(unit, records)
	return records
}
