// Package mempool maintains the pool of transactions waiting to be mined.
package mempool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/accounts"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/mempool/selector"
)

// Set of errors returned when a transaction is not admitted to the pool.
var (
	ErrInsufficientBalance = accounts.ErrInsufficientBalance
	ErrDuplicate           = errors.New("transaction already known")
)

// BalanceReader represents the behavior required to check the solvency of a
// sender at submission time.
type BalanceReader interface {
	Balance(address database.Address) float64
}

// =============================================================================

// Mempool represents a cache of pending transactions keyed by transaction
// hash. The arrival order is kept so strategies can respect it.
type Mempool struct {
	pool     map[string]database.Tx
	order    []string
	mu       sync.RWMutex
	selectFn selector.Func
}

// New constructs a new mempool using the default select strategy.
func New() *Mempool {
	mp, _ := NewWithStrategy(selector.StrategyArrival)
	return mp
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[string]database.Tx),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add puts the pending transaction in the pool. The sender must hold at
// least the amount at the time of submission. The amount is not reserved,
// the balance is checked again when the transaction is mined.
func (mp *Mempool) Add(tx database.Tx, balances BalanceReader) error {
	if balance := balances.Balance(tx.Sender); balance < tx.Amount {
		return fmt.Errorf("%w: %s has %v, needs %v", ErrInsufficientBalance, tx.Sender, balance, tx.Amount)
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.Hash]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, tx.Hash)
	}

	tx.Status = database.StatusPending
	mp.pool[tx.Hash] = tx
	mp.order = append(mp.order, tx.Hash)

	return nil
}

// Drain removes and returns every pending transaction ordered by the
// configured select strategy. The pool is empty afterwards.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := mp.arrival()

	mp.pool = make(map[string]database.Tx)
	mp.order = nil

	return mp.selectFn(txs)
}

// Restore puts the transactions back at the front of the pool in the order
// provided. It is used to return transactions that could not be mined.
func (mp *Mempool) Restore(txs []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	order := make([]string, 0, len(txs)+len(mp.order))
	for _, tx := range txs {
		if _, exists := mp.pool[tx.Hash]; exists {
			continue
		}

		tx.Status = database.StatusPending
		mp.pool[tx.Hash] = tx
		order = append(order, tx.Hash)
	}

	mp.order = append(order, mp.order...)
}

// Find returns the pending transaction with the specified hash.
func (mp *Mempool) Find(hash string) (database.Tx, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	tx, exists := mp.pool[hash]
	return tx, exists
}

// Copy returns a copy of the pending transactions in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.arrival()
}

// =============================================================================

// arrival returns the pending transactions in arrival order. The caller must
// hold the lock.
func (mp *Mempool) arrival() []database.Tx {
	txs := make([]database.Tx, 0, len(mp.order))
	for _, hash := range mp.order {
		txs = append(txs, mp.pool[hash])
	}
	return txs
}
