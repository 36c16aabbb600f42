package store

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
	closed  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

func (m *MemoryStore) Save(ctx context.Context, rec *Record) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	saved := rec.Clone()
	if saved.ID == "" {
		saved.ID = newID()
	}
	if _, ok := m.records[saved.ID]; !ok {
		m.order = append(m.order, saved.ID)
	}
	m.records[saved.ID] = saved

	out := saved.Clone()
	return &out, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]Record, error) {
	return m.filter(func(Record) bool { return true })
}

func (m *MemoryStore) FindByYear(ctx context.Context, year int) ([]Record, error) {
	return m.filter(func(r Record) bool { return r.Year == year })
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) (*Record, error) {
	matches, err := m.filter(func(r Record) bool { return r.Name == name })
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (m *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.records = nil
	m.order = nil
	return nil
}

func (m *MemoryStore) filter(keep func(Record) bool) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	out := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		rec := m.records[id]
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// Compile-time interface verification
var _ Store = (*MemoryStore)(nil)
