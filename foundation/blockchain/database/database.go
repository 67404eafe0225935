// Package database handles all the lower level support for the ledger data
// model: blocks, transactions, the chain of blocks and the registries that
// are persisted alongside it.
package database

import (
	"errors"
)

// ErrNotFound is returned by a Storage when there is no persisted ledger.
var ErrNotFound = errors.New("ledger snapshot not found")

// Storage interface represents the behavior required to be implemented by any
// package providing support for persisting and restoring the ledger.
type Storage interface {
	Write(snapshot Snapshot) error
	Read() (Snapshot, error)
	Close() error
}

// =============================================================================

// Snapshot is a point in time copy of everything the ledger persists.
type Snapshot struct {
	Chain     []Block
	Accounts  map[Address]float64
	Contracts map[Address]Contract
	AIModels  map[string]AIModel
}

// Contract represents a deployed smart contract. The ledger does not execute
// contract code; state is an opaque document updated on each execution.
type Contract struct {
	Address      Address        `json:"address"`
	Owner        Address        `json:"owner"`
	Code         string         `json:"code"`
	State        map[string]any `json:"state"`
	CreatedAt    uint64         `json:"created_at"`
	Transactions []string       `json:"transactions"`
}

// Clone returns a copy of the contract that does not share its state or
// transaction history.
func (c Contract) Clone() Contract {
	c.State = CopyDocument(c.State)
	if c.State == nil {
		c.State = map[string]any{}
	}
	c.Transactions = append([]string(nil), c.Transactions...)

	return c
}

// AIModel represents a model registered on the ledger. Training happens
// outside of the ledger.
type AIModel struct {
	ID              string         `json:"id"`
	Owner           Address        `json:"owner"`
	Config          map[string]any `json:"config"`
	CreatedAt       uint64         `json:"created_at"`
	TransactionHash string         `json:"transaction_hash"`
}

// Clone returns a copy of the model that does not share its configuration.
func (m AIModel) Clone() AIModel {
	m.Config = CopyDocument(m.Config)
	return m
}

// =============================================================================

// CopyDocument returns a deep copy of a JSON style document. Nested maps and
// slices are copied, every other value is kept as is.
func CopyDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}

	cpy := make(map[string]any, len(doc))
	for k, v := range doc {
		cpy[k] = copyValue(v)
	}
	return cpy
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return CopyDocument(v)
	case []any:
		cpy := make([]any, len(v))
		for i, e := range v {
			cpy[i] = copyValue(e)
		}
		return cpy
	}
	return v
}
