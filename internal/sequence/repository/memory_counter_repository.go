package repository

import (
	"context"
	"sync"
	"time"

	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
)

// MemoryCounterRepository keeps counters in process memory. The mutex makes
// every increment a single critical section.
type MemoryCounterRepository struct {
	mu       sync.Mutex
	counters map[string]*sequenceDomain.Counter
}

// AtomicIncrement advances the named counter under the repository lock.
func (m *MemoryCounterRepository) AtomicIncrement(
	_ context.Context,
	name string,
	period sequenceDomain.Period,
) (*sequenceDomain.Counter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.counters[name]
	if !ok {
		counter = &sequenceDomain.Counter{Name: name}
		m.counters[name] = counter
	}
	counter.Advance(period, time.Now().UTC())

	snapshot := *counter
	return &snapshot, nil
}

// NewMemoryCounterRepository creates an empty in-memory Counter repository.
func NewMemoryCounterRepository() *MemoryCounterRepository {
	return &MemoryCounterRepository{counters: make(map[string]*sequenceDomain.Counter)}
}
