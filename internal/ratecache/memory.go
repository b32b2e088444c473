package ratecache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTTL is how long a resolved rate stays usable.
	DefaultTTL = time.Hour
	// DefaultCapacity bounds the number of cached currency pairs.
	DefaultCapacity = 1000
)

type memoryEntry struct {
	key        string
	rate       decimal.Decimal
	insertedAt time.Time
}

// Memory is a mutex-guarded LRU cache with per-entry TTL. Entries expire a
// fixed duration after insertion; capacity overflow evicts the least
// recently used pair.
type Memory struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	order    *list.List
	entries  map[string]*list.Element
	now      func() time.Time
}

// NewMemory constructs an in-memory cache. Non-positive ttl or capacity fall
// back to the defaults.
func NewMemory(ttl time.Duration, capacity int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		ttl:      ttl,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (m *Memory) WithNow(now func() time.Time) *Memory {
	if now != nil {
		m.now = now
	}
	return m
}

// Get returns the cached rate for a pair. Expired entries read as misses and
// are dropped.
func (m *Memory) Get(_ context.Context, from, to string) (decimal.Decimal, bool) {
	key := Key(from, to)
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return decimal.Decimal{}, false
	}
	entry := elem.Value.(*memoryEntry)
	if m.now().Sub(entry.insertedAt) >= m.ttl {
		m.order.Remove(elem)
		delete(m.entries, key)
		return decimal.Decimal{}, false
	}
	m.order.MoveToFront(elem)
	return entry.rate, true
}

// Put stores a rate for a pair, resetting its TTL. Racing writers converge
// last-write-wins.
func (m *Memory) Put(_ context.Context, from, to string, rate decimal.Decimal) {
	key := Key(from, to)
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.rate = rate
		entry.insertedAt = m.now()
		m.order.MoveToFront(elem)
		return
	}
	m.entries[key] = m.order.PushFront(&memoryEntry{key: key, rate: rate, insertedAt: m.now()})
	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoryEntry).key)
	}
}

// Len reports the number of physically present entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
