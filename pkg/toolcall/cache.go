package toolcall

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CacheKeyable lets a payload type provide its own deterministic cache key,
// making the cache-key contract statically checked instead of relying on a
// generic serializer. The returned key must depend only on the payload's
// logical field values.
type CacheKeyable interface {
	CacheKey() string
}

// CacheEntry is a cached value with its original fetch timestamp and the
// response digest computed at fetch time.
type CacheEntry struct {
	Value     interface{}
	FetchedAt time.Time
	Digest    string

	ttl time.Duration
}

func (e CacheEntry) fresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) < e.ttl
}

// ToolCache is an in-memory TTL cache for tool results, keyed by a
// deterministic fingerprint of (tool name, payload). Expired entries are
// evicted lazily on lookup. Safe for concurrent use.
type ToolCache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// NewToolCache creates an empty cache.
func NewToolCache() *ToolCache {
	return &ToolCache{
		entries: make(map[string]CacheEntry),
	}
}

// MakeKey builds the cache key for a (tool, payload) pair. Payloads
// implementing CacheKeyable supply their own key; everything else is
// fingerprinted from its canonical JSON form, so the same logical payload
// always yields the same key regardless of field insertion order.
func (c *ToolCache) MakeKey(toolName string, payload interface{}) string {
	if k, ok := payload.(CacheKeyable); ok {
		return toolName + ":" + k.CacheKey()
	}
	return toolName + ":" + Fingerprint(payload)
}

// Get returns the entry for key if present and fresh at now. A stale entry
// is deleted and reported absent.
func (c *ToolCache) Get(key string, now time.Time) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return CacheEntry{}, false
	}
	if !entry.fresh(now) {
		delete(c.entries, key)
		return CacheEntry{}, false
	}
	return entry, true
}

// Set stores value under key with fetch timestamp now and the given TTL.
func (c *ToolCache) Set(key string, value interface{}, digest string, ttl time.Duration, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = CacheEntry{
		Value:     value,
		FetchedAt: now,
		Digest:    digest,
		ttl:       ttl,
	}
}

// Len returns the number of entries, including any not yet evicted.
func (c *ToolCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Fingerprint returns the sha256 hex digest of v's canonical JSON form.
// Canonicalization round-trips the JSON through a generic value so object
// keys serialize in sorted order.
func Fingerprint(v interface{}) string {
	sum := sha256.Sum256(canonicalJSON(v))
	return hex.EncodeToString(sum[:])
}

func canonicalJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable payloads still need a deterministic key.
		return []byte(fmt.Sprintf("%#v", v))
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return data
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return data
	}
	return canonical
}
