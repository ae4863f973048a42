package collab

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oxhq/smartdiff/difftypes"
)

func errUnsupportedExtension(ext string) error {
	return difftypes.NewError(difftypes.ErrInvalidInput, "no parser registered for extension %q", ext)
}

// cachedParse holds one Parser run's result keyed by the file content's
// hash, so re-comparing an unchanged file across runs skips re-parsing.
type cachedParse struct {
	result    ParseResult
	timestamp time.Time
}

// ParseCache is a lock-free, TTL-evicting cache of ParseResults keyed by
// content hash, shared across every Parser a CachingRegistry wraps.
type ParseCache struct {
	entries     sync.Map
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	maxAge      time.Duration
	cleanupOnce sync.Once
}

// NewParseCache returns a cache whose entries expire after maxAge.
func NewParseCache(maxAge time.Duration) *ParseCache {
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}
	return &ParseCache{maxAge: maxAge}
}

func (c *ParseCache) hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// GetOrParse returns the cached ParseResult for source if present and
// unexpired, otherwise calls parse, stores, and returns its result.
func (c *ParseCache) GetOrParse(source string, parse func() (ParseResult, error)) (ParseResult, error) {
	key := c.hash(source)

	if cached, ok := c.entries.Load(key); ok {
		entry := cached.(*cachedParse)
		if time.Since(entry.timestamp) <= c.maxAge {
			c.hits.Add(1)
			return entry.result, nil
		}
		c.entries.Delete(key)
		c.evictions.Add(1)
	}

	c.misses.Add(1)
	result, err := parse()
	if err != nil {
		return ParseResult{}, err
	}

	c.entries.Store(key, &cachedParse{result: result, timestamp: time.Now()})
	c.cleanupOnce.Do(func() { go c.cleanupLoop() })
	return result, nil
}

func (c *ParseCache) cleanupLoop() {
	ticker := time.NewTicker(c.maxAge)
	defer ticker.Stop()
	for range ticker.C {
		c.pruneExpired()
	}
}

func (c *ParseCache) pruneExpired() {
	now := time.Now()
	c.entries.Range(func(key, value any) bool {
		entry := value.(*cachedParse)
		if now.Sub(entry.timestamp) > c.maxAge {
			c.entries.Delete(key)
			c.evictions.Add(1)
		}
		return true
	})
}

// Stats reports cache hit/miss/eviction counters.
func (c *ParseCache) Stats() (hits, misses, evictions int64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

// CachingRegistry wraps a Registry so every Parse call is content-hash
// cached, independent of which language handled the file.
type CachingRegistry struct {
	*Registry
	cache *ParseCache
}

// NewCachingRegistry returns a CachingRegistry over registry with its own
// ParseCache.
func NewCachingRegistry(registry *Registry, maxAge time.Duration) *CachingRegistry {
	return &CachingRegistry{Registry: registry, cache: NewParseCache(maxAge)}
}

// Parse resolves a Parser for ext (filePath's extension is not consulted)
// and runs it on filePath/source through the cache.
func (r *CachingRegistry) Parse(filePath, source string, ext string) (ParseResult, error) {
	parser, ok := r.ForExtension(ext)
	if !ok {
		return ParseResult{}, errUnsupportedExtension(ext)
	}
	return r.cache.GetOrParse(source, func() (ParseResult, error) {
		return parser.Parse(filePath, source)
	})
}
