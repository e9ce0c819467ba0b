package repo

import (
	"context"
	"maps"
	"sync"

	"steakfeed/internal/core/record"
)

// Memory keeps items in a map. It backs tests and dry runs
type Memory struct {
	mu     sync.RWMutex
	items  map[string]record.Item
	writes int

	// Reject, when set, decides per call which items come back unprocessed
	Reject func(call int, items []record.Item) []record.Item
	calls  int
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{items: make(map[string]record.Item)}
}

// Name implements domain.ItemRepo
func (m *Memory) Name() string { return "memory" }

// Ensure implements domain.ItemRepo
func (m *Memory) Ensure(context.Context) error { return nil }

// BatchWrite implements domain.ItemWriter
func (m *Memory) BatchWrite(ctx context.Context, items []record.Item) ([]record.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	var rejected []record.Item
	if m.Reject != nil {
		rejected = m.Reject(m.calls, items)
	}
	skip := make(map[string]bool, len(rejected))
	for _, it := range rejected {
		skip[it.Key()] = true
	}
	for _, it := range items {
		if skip[it.Key()] {
			continue
		}
		m.items[it.Key()] = maps.Clone(it)
		m.writes++
	}
	return rejected, nil
}

// Get implements domain.ItemReader
func (m *Memory) Get(_ context.Context, hash string) (record.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[hash]
	if !ok {
		return nil, notFound(hash)
	}
	return maps.Clone(it), nil
}

// Len returns the number of distinct items stored
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Writes returns how many item puts were applied, replacements included
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Calls returns how many batch writes were received
func (m *Memory) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}
