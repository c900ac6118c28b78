// Package ecache implements the memoizing expression cache: a bounded LRU
// of (expression, scope-fingerprint) -> evaluation result, backed by
// github.com/hashicorp/golang-lru/v2 rather than a hand-rolled map+list.
// Only successful evaluations are stored; errors are never cached.
package ecache

import (
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cwbudde/skillet/internal/value"
)

// DefaultCapacity is the entry bound used when no capacity is configured.
const DefaultCapacity = 1000

// Result is what pkg/skillet.EvaluateCached returns: the evaluated value,
// whether the answer came from the cache, the observed (or recorded, on a
// hit) execution time, and — when requested — the scope as mutated by any
// assignments the expression performed.
type Result struct {
	Value    value.Value
	Scope    map[string]value.Value
	Duration time.Duration
	CacheHit bool
	Err      error
}

// Stats is the cache's point-in-time counters, served as-is by
// pkg/skillet.CacheStats and the /v1/cache/stats route.
type Stats struct {
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	Entries          int     `json:"entries"`
	Evictions        int64   `json:"evictions"`
	TotalSavedTimeMs int64   `json:"total_saved_time_ms"`
	HitRate          float64 `json:"hit_rate"`
	Capacity         int     `json:"capacity"`
}

// Entry is one stored evaluation: the result value, the post-assignment
// scope snapshot, and how long the original (uncached) evaluation took.
type Entry struct {
	Value    value.Value
	Scope    map[string]value.Value
	Duration time.Duration
}

type record struct {
	entry      Entry
	hits       int64
	lastAccess time.Time
}

// Cache is a fixed-capacity LRU keyed by GenerateKey's deterministic
// expression+scope encoding. A single mutex guards the LRU and every
// counter; nothing under the lock blocks on I/O. Safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	lru       *lru.Cache[string, *record]
	capacity  int
	hits      int64
	misses    int64
	evictions int64
	saved     time.Duration
}

// New builds a Cache with the given capacity (must be positive).
func New(capacity int) (*Cache, error) {
	c := &Cache{capacity: capacity}
	l, err := lru.NewWithEvict(capacity, func(string, *record) {
		c.evictions++
	})
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

// GenerateKey builds the deterministic fingerprint for one (expression,
// scope) pair: the expression verbatim when scope is empty, else
// "expr|k1:v1,k2:v2" with scope entries sorted by name so insertion order
// never affects the key. Each value renders via its CacheKeyToken, which
// already normalizes -0.0 and rejects NaN at construction (internal/value
// invariant), so structurally-equal scopes always produce identical keys.
func GenerateKey(expr string, scope map[string]value.Value) string {
	if len(scope) == 0 {
		return expr
	}
	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + scope[name].CacheKeyToken()
	}
	return expr + "|" + strings.Join(parts, ",")
}

// Get looks up key. A hit bumps the hit counter and credits the entry's
// recorded execution time to the total-saved tally; a miss bumps misses.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return Entry{}, false
	}
	c.hits++
	c.saved += rec.entry.Duration
	rec.hits++
	rec.lastAccess = time.Now()
	return rec.entry, true
}

// Put stores a successful evaluation under key. Concurrent misses for the
// same key may each call Put; last writer wins, which is harmless since
// evaluation is pure.
func (c *Cache) Put(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, &record{entry: e, lastAccess: time.Now()})
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Hits:             c.hits,
		Misses:           c.misses,
		Entries:          c.lru.Len(),
		Evictions:        c.evictions,
		TotalSavedTimeMs: c.saved.Milliseconds(),
		Capacity:         c.capacity,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Clear drops every entry and resets all counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.hits, c.misses, c.evictions, c.saved = 0, 0, 0, 0
}
