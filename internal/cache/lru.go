package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// DefaultLRUSize bounds the local cache when no size is configured.
const DefaultLRUSize = 1000

// LRUCache is a mutex-guarded LRU with per-entry expiry.
// It is the default cache and the L1 of TwoPhaseCache.
type LRUCache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List
	now     func() time.Time
}

type lruEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewLRUCache creates an LRU holding at most maxSize entries.
func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = DefaultLRUSize
	}
	return &LRUCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns nil, nil on a miss or an expired entry.
func (c *LRUCache) Get(_ context.Context, tenantID, key string) ([]byte, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[tenantKey(tenantID, key)]
	if !ok {
		return nil, nil
	}
	entry := elem.Value.(*lruEntry)
	if c.expired(entry) {
		c.removeElement(elem)
		return nil, nil
	}
	c.order.MoveToFront(elem)
	return entry.value, nil
}

// Set stores value; a non-positive ttl keeps it until evicted.
func (c *LRUCache) Set(_ context.Context, tenantID, key string, value []byte, ttl time.Duration) error {
	if tenantID == "" {
		return ErrTenantRequired
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	fullKey := tenantKey(tenantID, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[fullKey]; ok {
		entry := elem.Value.(*lruEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	c.items[fullKey] = c.order.PushFront(&lruEntry{key: fullKey, value: value, expiresAt: expiresAt})
	for c.order.Len() > c.maxSize {
		c.removeElement(c.order.Back())
	}
	return nil
}

func (c *LRUCache) Delete(_ context.Context, tenantID, key string) error {
	if tenantID == "" {
		return ErrTenantRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[tenantKey(tenantID, key)]; ok {
		c.removeElement(elem)
	}
	return nil
}

func (c *LRUCache) GetAnalysis(ctx context.Context, tenantID, fingerprint string) (*domain.Analysis, error) {
	return loadAnalysis(ctx, c, tenantID, fingerprint)
}

func (c *LRUCache) SetAnalysis(ctx context.Context, tenantID, fingerprint string, a *domain.Analysis, ttl time.Duration) error {
	return storeAnalysis(ctx, c, tenantID, fingerprint, a, ttl)
}

func (c *LRUCache) Ping(context.Context) error { return nil }

// Close drops every entry.
func (c *LRUCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

// Stats returns the current entry count and the capacity.
func (c *LRUCache) Stats() (size int, capacity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len(), c.maxSize
}

func (c *LRUCache) expired(e *lruEntry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

func (c *LRUCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*lruEntry).key)
}

func tenantKey(tenantID, key string) string {
	return tenantID + ":" + key
}
