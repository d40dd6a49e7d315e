// Package cache stores verification codes fetched from blockchain nodes.
//
// Anchored codes never change once a transaction is confirmed, so entries
// do not expire; implementations only bound their total size.
package cache

import (
	"slices"
	"sync"
)

// Cache maps lookup keys to anchored code bytes.
//
// Implementations should handle their own size limits and eviction policies.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value for key.
	// Returns nil, false if the key is not cached.
	Get(key string) ([]byte, bool)

	// Put stores value under key.
	Put(key string, value []byte) error

	// Delete removes the entry for key.
	// Implementations should treat missing entries as a no-op.
	Delete(key string) error

	// MaxBytes returns the configured cache size limit (0 = unlimited).
	MaxBytes() int64

	// SizeBytes returns the current cache size in bytes.
	SizeBytes() int64

	// Prune removes cached entries until the cache is at or below targetBytes.
	// Returns the number of bytes freed.
	Prune(targetBytes int64) (int64, error)
}

// Memory is an in-process Cache that evicts the oldest entries first.
type Memory struct {
	mu       sync.Mutex
	entries  map[string][]byte
	order    []string
	size     int64
	maxBytes int64
}

var _ Cache = (*Memory)(nil)

// NewMemory returns an empty in-memory cache limited to maxBytes.
// Use 0 for no limit.
func NewMemory(maxBytes int64) *Memory {
	if maxBytes < 0 {
		maxBytes = 0
	}
	return &Memory{
		entries:  make(map[string][]byte),
		maxBytes: maxBytes,
	}
}

// Get returns a copy of the cached value.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

// Put stores a copy of value. Values larger than the limit are skipped.
func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	need := int64(len(value))
	if m.maxBytes > 0 && need > m.maxBytes {
		return nil
	}
	if old, ok := m.entries[key]; ok {
		m.size -= int64(len(old))
		m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	}
	if m.maxBytes > 0 {
		m.pruneLocked(m.maxBytes - need)
	}
	m.entries[key] = slices.Clone(value)
	m.order = append(m.order, key)
	m.size += need
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.entries[key]
	if !ok {
		return nil
	}
	delete(m.entries, key)
	m.size -= int64(len(old))
	m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	return nil
}

// MaxBytes returns the configured limit.
func (m *Memory) MaxBytes() int64 {
	return m.maxBytes
}

// SizeBytes returns the total size of cached values.
func (m *Memory) SizeBytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Prune evicts the oldest entries until the cache holds at most targetBytes.
func (m *Memory) Prune(targetBytes int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pruneLocked(targetBytes), nil
}

func (m *Memory) pruneLocked(targetBytes int64) int64 {
	if targetBytes < 0 {
		targetBytes = 0
	}
	var freed int64
	for m.size > targetBytes && len(m.order) > 0 {
		key := m.order[0]
		m.order = m.order[1:]
		n := int64(len(m.entries[key]))
		delete(m.entries, key)
		m.size -= n
		freed += n
	}
	return freed
}
