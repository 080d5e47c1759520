// internal/ledger/memory/storage.go
//
// In-memory implementation of the ledger.Store interface.
// Used for development, tests, and single-process deployments where
// durability is not required.
//
// Characteristics:
//   - Stores ledger.Record values keyed by ledger.Key(player) in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out, so callers never alias stored state.
//   - State is lost when the process restarts.

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
)

// Storage is an in-memory map-based Store implementation.
type Storage struct {
	mu      sync.RWMutex             // guards records
	records map[string]ledger.Record // keyed by Record.Key
}

// Ensure Storage implements the interface
var _ ledger.Store = (*Storage)(nil)

// New constructs an empty in-memory store.
func New() *Storage {
	return &Storage{records: make(map[string]ledger.Record)}
}

// Get looks up a record by key.
func (m *Storage) Get(ctx context.Context, key string) (*ledger.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.records[key]; ok {
		return &rec, nil
	}
	return nil, game.ErrNotFound
}

// Create adds rec if its key is free.
func (m *Storage) Create(ctx context.Context, rec *ledger.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.Key]; ok {
		return game.ErrGameAlreadyExists
	}
	m.records[rec.Key] = *rec
	return nil
}

// Update applies fn to a copy of the stored state and keeps it only if fn succeeds.
func (m *Storage) Update(ctx context.Context, key string, fn func(*game.State) error) (*ledger.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, game.ErrNotFound
	}
	if err := fn(&rec.State); err != nil {
		return nil, err
	}
	rec.UpdatedAt = time.Now().UTC()
	m.records[key] = rec
	return &rec, nil
}

// Delete removes the record once check approves it.
func (m *Storage) Delete(ctx context.Context, key string, check func(*game.State) error) (*ledger.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, game.ErrNotFound
	}
	if check != nil {
		if err := check(&rec.State); err != nil {
			return nil, err
		}
	}
	delete(m.records, key)
	return &rec, nil
}

// Close is a no-op.
func (m *Storage) Close() error { return nil }
