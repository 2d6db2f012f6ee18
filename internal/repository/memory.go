package repository

import (
	"context"
	"sync"

	"screenshop/internal/model"
)

// DefaultMemoryCapacity bounds the in-memory store.
const DefaultMemoryCapacity = 500

// Memory is a bounded in-process GenerationRepository used when no database
// is configured. The oldest record is evicted once capacity is reached.
type Memory struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	records  map[string]model.Generation
}

var _ GenerationRepository = (*Memory)(nil)

// NewMemory creates a store holding at most capacity records.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{capacity: capacity, records: make(map[string]model.Generation)}
}

func (m *Memory) Create(_ context.Context, g *model.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[g.ID]; !ok {
		if len(m.order) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.records, oldest)
		}
		m.order = append(m.order, g.ID)
	}
	rec := *g
	rec.PageHints = append([]model.PageHint(nil), g.PageHints...)
	m.records[g.ID] = rec
	return nil
}

func (m *Memory) FindByID(_ context.Context, id string) (*model.Generation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) ListRecent(_ context.Context, limit int) ([]model.Generation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Generation, 0, min(limit, len(m.order)))
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[m.order[i]])
	}
	return out, nil
}
