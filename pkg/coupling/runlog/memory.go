package runlog

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory run log for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[int]WindowRecord // participant -> window -> record
	closed bool
}

// NewMemoryStore creates a new in-memory run log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[int]WindowRecord),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(rec WindowRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if m.data[rec.Participant] == nil {
		m.data[rec.Participant] = make(map[int]WindowRecord)
	}
	m.data[rec.Participant][rec.Window] = rec
	return nil
}

// List implements Store.
func (m *MemoryStore) List(participant string) ([]WindowRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	run, ok := m.data[participant]
	if !ok {
		return nil, nil
	}

	recs := make([]WindowRecord, 0, len(run))
	for _, rec := range run {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Window < recs[j].Window
	})
	return recs, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the total number of records across all participants.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, run := range m.data {
		count += len(run)
	}
	return count
}
