// Package memory implements the ability to keep the ledger snapshot in
// memory. It is used by tests and by nodes started without a data directory.
package memory

import (
	"sync"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
)

// Memory represents the serialization implementation for keeping the
// snapshot in memory. Snapshots are copied on the way in and out so callers
// never share state with the store. This implements the database.Storage
// interface.
type Memory struct {
	mu       sync.RWMutex
	snapshot *database.Snapshot
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes a copy of the snapshot and stores it in memory.
func (m *Memory) Write(snapshot database.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := clone(snapshot)
	m.snapshot = &cpy

	return nil
}

// Read returns a copy of the last snapshot written.
func (m *Memory) Read() (database.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return database.Snapshot{}, database.ErrNotFound
	}

	return clone(*m.snapshot), nil
}

// =============================================================================

// clone performs a copy of the snapshot so the store and the caller never
// share maps or slices.
func clone(s database.Snapshot) database.Snapshot {
	cpy := database.Snapshot{
		Chain: make([]database.Block, len(s.Chain)),
	}

	for i, block := range s.Chain {
		block.Transactions = append([]database.Tx(nil), block.Transactions...)
		cpy.Chain[i] = block
	}

	if s.Accounts != nil {
		cpy.Accounts = make(map[database.Address]float64, len(s.Accounts))
		for k, v := range s.Accounts {
			cpy.Accounts[k] = v
		}
	}

	if s.Contracts != nil {
		cpy.Contracts = make(map[database.Address]database.Contract, len(s.Contracts))
		for k, v := range s.Contracts {
			cpy.Contracts[k] = v.Clone()
		}
	}

	if s.AIModels != nil {
		cpy.AIModels = make(map[string]database.AIModel, len(s.AIModels))
		for k, v := range s.AIModels {
			cpy.AIModels[k] = v.Clone()
		}
	}

	return cpy
}
