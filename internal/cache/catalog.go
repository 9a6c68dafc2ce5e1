// Package cache memoizes catalog reads that every candle quote needs.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"storefront/internal/domain"
)

const (
	keyMaterials = "materials"
	keyRules     = "rules"
)

type entry struct {
	value    interface{}
	storedAt time.Time
}

// Catalog caches the material list and the compatibility rule table. Entries
// expire after ttl; Listen drops them early when another process writes.
type Catalog struct {
	mu  sync.Mutex
	lru *lru.Cache
	ttl time.Duration
	gen uint64
	now func() time.Time
}

// NewCatalog builds a cache holding up to size entries. A ttl of zero keeps
// entries until invalidated.
func NewCatalog(size int, ttl time.Duration) (*Catalog, error) {
	if size <= 0 {
		size = 16
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Catalog{lru: c, ttl: ttl, now: time.Now}, nil
}

// Generation identifies the cache state before a database read. Pass it to
// SetMaterials or SetRules so a result loaded before an invalidation is not
// cached.
func (c *Catalog) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Catalog) Materials() ([]domain.Material, bool) {
	v, ok := c.get(keyMaterials)
	if !ok {
		return nil, false
	}
	return v.([]domain.Material), true
}

func (c *Catalog) SetMaterials(gen uint64, ms []domain.Material) {
	c.set(gen, keyMaterials, ms)
}

func (c *Catalog) Rules() ([]domain.CompatibilityRule, bool) {
	v, ok := c.get(keyRules)
	if !ok {
		return nil, false
	}
	return v.([]domain.CompatibilityRule), true
}

func (c *Catalog) SetRules(gen uint64, rs []domain.CompatibilityRule) {
	c.set(gen, keyRules, rs)
}

// InvalidateMaterials drops the cached material list. Rules reference
// materials, so they are dropped too.
func (c *Catalog) InvalidateMaterials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Remove(keyMaterials)
	c.lru.Remove(keyRules)
}

func (c *Catalog) InvalidateRules() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Remove(keyRules)
}

func (c *Catalog) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *Catalog) set(gen uint64, key string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.lru.Add(key, entry{value: v, storedAt: c.now()})
}
