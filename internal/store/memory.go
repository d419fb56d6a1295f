package store

import (
	"context"
	"sort"
	"sync"

	"github.com/roach88/sift/internal/ir"
)

// Memory is an in-memory, thread-safe Store.
// One RWMutex guards the whole collection; reads share the lock.
type Memory struct {
	mu      sync.RWMutex
	records map[string]entry
	seq     uint64
}

type entry struct {
	rec ir.Record
	seq uint64
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]entry),
	}
}

// InsertIfAbsent stores a clone of rec unless its ID is already present.
// The check and the insert happen under one write lock.
func (m *Memory) InsertIfAbsent(_ context.Context, rec ir.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; exists {
		return false, nil
	}
	m.seq++
	m.records[rec.ID] = entry{rec: rec.Clone(), seq: m.seq}
	return true, nil
}

// Get returns a clone of the record with the given ID.
func (m *Memory) Get(_ context.Context, id string) (ir.Record, bool, error) {
	m.mu.RLock()
	e, ok := m.records[id]
	m.mu.RUnlock()

	if !ok {
		return ir.Record{}, false, nil
	}
	return e.rec.Clone(), true, nil
}

// Delete removes the record with the given ID.
func (m *Memory) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

// Scan copies every entry under the read lock, then orders by seq.
// Returns an empty slice (not nil) when the store is empty.
func (m *Memory) Scan(_ context.Context) ([]ir.Record, error) {
	m.mu.RLock()
	entries := make([]entry, 0, len(m.records))
	for _, e := range m.records {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]ir.Record, len(entries))
	for i, e := range entries {
		out[i] = e.rec.Clone()
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
