// Package accounts maintains account balances.
package accounts

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/genesis"
)

// Set of errors returned by the accounts ledger.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountExists       = errors.New("account already exists")
)

// Accounts manages the balance of every account that has transacted on the
// ledger. Balances only change as part of applying a block.
type Accounts struct {
	genesis  genesis.Genesis
	balances map[database.Address]float64
	mu       sync.RWMutex
}

// New constructs the accounts ledger with the genesis balances.
func New(genesis genesis.Genesis) *Accounts {
	accts := Accounts{
		genesis: genesis,
	}
	accts.Reset()

	return &accts
}

// Reset re-initializes the accounts back to the genesis information.
func (act *Accounts) Reset() {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.balances = make(map[database.Address]float64)
	for addr, balance := range act.genesis.Balances {
		act.balances[database.Address(addr)] = balance
	}
}

// Replace swaps the balances for the specified set.
func (act *Accounts) Replace(balances map[database.Address]float64) {
	cpy := make(map[database.Address]float64, len(balances))
	for addr, balance := range balances {
		cpy[addr] = balance
	}

	act.mu.Lock()
	defer act.mu.Unlock()

	act.balances = cpy
}

// Copy makes a copy of the current balances.
func (act *Accounts) Copy() map[database.Address]float64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	balances := make(map[database.Address]float64, len(act.balances))
	for addr, balance := range act.balances {
		balances[addr] = balance
	}
	return balances
}

// Balance returns the balance for the address. Unknown addresses have a
// zero balance.
func (act *Accounts) Balance(address database.Address) float64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return act.balances[address]
}

// Create adds an account with a zero balance.
func (act *Accounts) Create(address database.Address) error {
	if !address.IsAccount() {
		return fmt.Errorf("%w: %q is not an account address", database.ErrInvalidTransaction, address)
	}

	act.mu.Lock()
	defer act.mu.Unlock()

	if _, exists := act.balances[address]; exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, address)
	}

	act.balances[address] = 0

	return nil
}

// Count returns the number of accounts in the ledger.
func (act *Accounts) Count() int {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return len(act.balances)
}

// Sum returns the total value held across every account.
func (act *Accounts) Sum() float64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	var sum float64
	for _, balance := range act.balances {
		sum += balance
	}
	return sum
}

// ApplyBlock applies every transaction in the block to the balances. If any
// transaction would overdraw its sender, no balance is changed.
func (act *Accounts) ApplyBlock(block database.Block) error {
	act.mu.Lock()
	defer act.mu.Unlock()

	balances := make(map[database.Address]float64, len(act.balances))
	for addr, balance := range act.balances {
		balances[addr] = balance
	}

	for _, tx := range block.Transactions {
		if err := ApplyTransaction(balances, tx); err != nil {
			return fmt.Errorf("blk[%d]: %w", block.Index, err)
		}
	}

	act.balances = balances

	return nil
}

// Replay resets the balances to genesis and applies every block after the
// genesis block. It is used to rebuild the balances from a loaded chain.
func (act *Accounts) Replay(blocks []database.Block) error {
	replay := New(act.genesis)

	for _, block := range blocks {
		if block.Index == 0 {
			continue
		}

		if err := replay.ApplyBlock(block); err != nil {
			return err
		}
	}

	act.Replace(replay.Copy())

	return nil
}

// Reconcile compares the stored balances with the current ones. Stored
// accounts that are unknown here and hold nothing are added with a zero
// balance, every other difference is left as is. The addresses that
// disagree are returned.
func (act *Accounts) Reconcile(stored map[database.Address]float64) []database.Address {
	act.mu.Lock()
	defer act.mu.Unlock()

	var diff []database.Address
	for addr, balance := range stored {
		current, exists := act.balances[addr]
		switch {
		case !exists && balance == 0:
			act.balances[addr] = 0
		case !exists || current != balance:
			diff = append(diff, addr)
		}
	}

	for addr := range act.balances {
		if _, exists := stored[addr]; !exists {
			diff = append(diff, addr)
		}
	}

	slices.Sort(diff)

	return diff
}

// =============================================================================

// ApplyTransaction performs the business logic for applying a transaction
// to the specified balances. The network address is never debited.
func ApplyTransaction(balances map[database.Address]float64, tx database.Tx) error {
	if !tx.IsReward() {
		if balances[tx.Sender] < tx.Amount {
			return fmt.Errorf("%w: %s has %v, needs %v", ErrInsufficientBalance, tx.Sender, balances[tx.Sender], tx.Amount)
		}

		balances[tx.Sender] -= tx.Amount
	}

	balances[tx.Recipient] += tx.Amount

	return nil
}
