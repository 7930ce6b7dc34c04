package toolcall

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cacheEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type flightQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type keyedQuery struct {
	ID string
}

func (q keyedQuery) CacheKey() string {
	return q.ID
}

func TestToolCache_MakeKeyDeterministic(t *testing.T) {
	c := NewToolCache()

	// Maps built in different insertion orders.
	p1 := map[string]interface{}{"origin": "SFO", "destination": "NRT", "date": "2025-07-01"}
	p2 := map[string]interface{}{"date": "2025-07-01", "destination": "NRT", "origin": "SFO"}

	assert.Equal(t, c.MakeKey("adapter.flights", p1), c.MakeKey("adapter.flights", p2))

	// A struct with the same canonical field values hashes identically.
	p3 := flightQuery{Origin: "SFO", Destination: "NRT", Date: "2025-07-01"}
	assert.Equal(t, c.MakeKey("adapter.flights", p1), c.MakeKey("adapter.flights", p3))
}

func TestToolCache_MakeKeyDistinguishesPayloads(t *testing.T) {
	c := NewToolCache()

	a := flightQuery{Origin: "SFO", Destination: "NRT", Date: "2025-07-01"}
	b := flightQuery{Origin: "SFO", Destination: "NRT", Date: "2025-07-02"}

	assert.NotEqual(t, c.MakeKey("adapter.flights", a), c.MakeKey("adapter.flights", b))
}

func TestToolCache_MakeKeyDistinguishesTools(t *testing.T) {
	c := NewToolCache()

	p := flightQuery{Origin: "SFO", Destination: "NRT", Date: "2025-07-01"}

	assert.NotEqual(t, c.MakeKey("adapter.flights", p), c.MakeKey("adapter.lodging", p))
}

func TestToolCache_MakeKeyUsesCacheKeyable(t *testing.T) {
	c := NewToolCache()

	assert.Equal(t, "adapter.fx:USD-JPY", c.MakeKey("adapter.fx", keyedQuery{ID: "USD-JPY"}))
}

func TestToolCache_GetMissWhenEmpty(t *testing.T) {
	c := NewToolCache()

	_, ok := c.Get("adapter.fx:missing", cacheEpoch)
	assert.False(t, ok)
}

func TestToolCache_GetFreshEntry(t *testing.T) {
	c := NewToolCache()
	c.Set("k", "rate=157.2", "digest", 10*time.Second, cacheEpoch)

	entry, ok := c.Get("k", cacheEpoch.Add(9*time.Second))
	require.True(t, ok)
	assert.Equal(t, "rate=157.2", entry.Value)
	assert.Equal(t, cacheEpoch, entry.FetchedAt)
	assert.Equal(t, "digest", entry.Digest)
}

func TestToolCache_ExpiryIsExclusive(t *testing.T) {
	c := NewToolCache()
	c.Set("k", "v", "", 10*time.Second, cacheEpoch)

	// Fresh strictly before t0+TTL, absent at and after it.
	_, ok := c.Get("k", cacheEpoch.Add(10*time.Second-time.Nanosecond))
	assert.True(t, ok)

	_, ok = c.Get("k", cacheEpoch.Add(10*time.Second))
	assert.False(t, ok)
}

func TestToolCache_LazyEviction(t *testing.T) {
	c := NewToolCache()
	c.Set("k", "v", "", time.Second, cacheEpoch)
	require.Equal(t, 1, c.Len())

	_, ok := c.Get("k", cacheEpoch.Add(2*time.Second))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "stale entry must be deleted on lookup")
}

func TestToolCache_SetOverwrites(t *testing.T) {
	c := NewToolCache()
	c.Set("k", "old", "", time.Minute, cacheEpoch)
	c.Set("k", "new", "", time.Minute, cacheEpoch.Add(time.Second))

	entry, ok := c.Get("k", cacheEpoch.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, "new", entry.Value)
	assert.Equal(t, cacheEpoch.Add(time.Second), entry.FetchedAt)
}

func TestFingerprint_StableAcrossEquivalentValues(t *testing.T) {
	p1 := map[string]interface{}{"b": 2, "a": 1}
	p2 := map[string]interface{}{"a": 1, "b": 2}

	assert.Equal(t, Fingerprint(p1), Fingerprint(p2))
	assert.NotEqual(t, Fingerprint(p1), Fingerprint(map[string]interface{}{"a": 1, "b": 3}))
}
