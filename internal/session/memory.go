package session

import (
	"context"
	"sync"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
)

// DefaultCacheSize bounds the in-memory store when no size is configured.
const DefaultCacheSize = 10000

// MemoryStore keeps encoded contexts in a bounded LRU. The least recently
// used session is evicted once maxEntries is exceeded.
type MemoryStore struct {
	cache   *lruCache
	codec   Codec
	metrics *observability.Metrics
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore(maxEntries int, codec Codec, metrics *observability.Metrics) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &MemoryStore{
		cache:   newLRUCache(maxEntries),
		codec:   codec,
		metrics: metrics,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*domain.DialogueContext, error) {
	data, ok := s.cache.get(id)
	if !ok {
		s.metrics.SessionStore.WithLabelValues("load", "miss").Inc()
		return domain.NewDialogueContext(), nil
	}
	dc, err := s.codec.Decode(data)
	if err != nil {
		s.metrics.SessionStore.WithLabelValues("load", "error").Inc()
		return dc, err
	}
	s.metrics.SessionStore.WithLabelValues("load", "hit").Inc()
	return dc, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, dc *domain.DialogueContext) error {
	data, err := s.codec.Encode(dc)
	if err != nil {
		s.metrics.SessionStore.WithLabelValues("save", "error").Inc()
		return err
	}
	s.cache.put(id, data)
	s.metrics.SessionStore.WithLabelValues("save", "ok").Inc()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.delete(id)
	s.metrics.SessionStore.WithLabelValues("delete", "ok").Inc()
	return nil
}

// CheckReadiness always succeeds; the store has no external dependency.
func (s *MemoryStore) CheckReadiness(context.Context) error { return nil }

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int { return s.cache.len() }

// lruCache is a simple thread-safe LRU cache of encoded contexts.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.remove(e)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
