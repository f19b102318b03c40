package storage

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value   []byte
	expires time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expires.IsZero() && !now.Before(i.expires)
}

// MemoryBackend keeps items in process memory. A positive quota caps the size
// of keys plus values per namespace (the part of the key before the first
// ':'), like the browser's per-origin quota. A positive ttl expires items that
// long after they were written.
type MemoryBackend struct {
	mu       sync.Mutex
	items    map[string]memoryItem
	used     map[string]int
	quota    int
	ttl      time.Duration
	now      func() time.Time
	disabled bool
}

func NewMemoryBackend(quotaBytes int, ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		items: make(map[string]memoryItem),
		used:  make(map[string]int),
		quota: quotaBytes,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryBackend) Name() string {
	return "memory"
}

// SetDisabled makes every call fail with ErrUnavailable.
func (m *MemoryBackend) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

func namespaceOf(key string) string {
	ns, _, found := strings.Cut(key, ":")
	if !found {
		return ""
	}
	return ns
}

func (m *MemoryBackend) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrUnavailable
	}

	now := m.now()
	m.sweep(now)

	ns := namespaceOf(key)
	used := m.used[ns]
	if old, ok := m.items[key]; ok {
		used -= len(key) + len(old.value)
	}
	used += len(key) + len(value)
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	item := memoryItem{value: make([]byte, len(value))}
	copy(item.value, value)
	if m.ttl > 0 {
		item.expires = now.Add(m.ttl)
	}
	m.items[key] = item
	m.used[ns] = used
	return nil
}

func (m *MemoryBackend) GetItem(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return nil, ErrUnavailable
	}

	item, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if item.expired(m.now()) {
		m.delete(key)
		return nil, ErrNotFound
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (m *MemoryBackend) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrUnavailable
	}
	m.delete(key)
	return nil
}

// Len returns the number of live items.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(m.now())
	return len(m.items)
}

// sweep drops expired items. Callers hold mu.
func (m *MemoryBackend) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for key, item := range m.items {
		if item.expired(now) {
			m.delete(key)
		}
	}
}

// delete removes key and gives its bytes back to the namespace quota. Callers hold mu.
func (m *MemoryBackend) delete(key string) {
	item, ok := m.items[key]
	if !ok {
		return
	}
	delete(m.items, key)

	ns := namespaceOf(key)
	if m.used[ns] -= len(key) + len(item.value); m.used[ns] <= 0 {
		delete(m.used, ns)
	}
}
