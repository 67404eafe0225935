// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/accounts"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/difficulty"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/genesis"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/mempool"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/mempool/selector"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/oracle"
)

// Set of errors returned by the ledger.
var (
	ErrNotFound              = errors.New("not found")
	ErrNoPendingTransactions = errors.New("no pending transactions")
	ErrOracleFailed          = errors.New("oracle failed to produce a valid block")
	ErrInsufficientBalance   = mempool.ErrInsufficientBalance
	ErrContractNotFound      = errors.New("contract not found")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis        genesis.Genesis
	Storage        database.Storage
	Oracle         oracle.Oracle
	SelectStrategy string
	EvHandler      EventHandler

	// Optional. Defaults to time.Now and the genesis max iterations.
	Clock         func() time.Time
	MaxIterations uint32
	Difficulty    *difficulty.Controller
}

// State manages the ledger. Mining and submission are serialized behind an
// exclusive lock, queries share a read lock.
type State struct {
	mu sync.RWMutex

	evHandler     EventHandler
	clock         func() time.Time
	maxIterations uint32
	txSeq         uint64

	genesis    genesis.Genesis
	storage    database.Storage
	oracle     oracle.Oracle
	difficulty difficulty.Controller
	chain      *database.Chain
	accounts   *accounts.Accounts
	mempool    *mempool.Mempool
	contracts  map[database.Address]database.Contract
	aiModels   map[string]database.AIModel

	Worker Worker
}

// New constructs the ledger, restoring it from storage when a snapshot
// exists. A snapshot that can't be read is replaced by a fresh genesis chain.
// A snapshot that is read but fails validation is an error, corrupted state
// is never repaired.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if cfg.Oracle == nil {
		return nil, errors.New("oracle is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = cfg.Genesis.MaxIterations
	}

	ctrl := difficulty.New()
	if cfg.Difficulty != nil {
		ctrl = *cfg.Difficulty
	}

	// Construct a mempool with the specified select strategy.
	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = selector.StrategyArrival
	}
	mp, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	s := State{
		evHandler:     ev,
		clock:         clock,
		maxIterations: maxIterations,

		genesis:    cfg.Genesis,
		storage:    cfg.Storage,
		oracle:     cfg.Oracle,
		difficulty: ctrl,
		accounts:   accounts.New(cfg.Genesis),
		mempool:    mp,
		contracts:  make(map[database.Address]database.Contract),
		aiModels:   make(map[string]database.AIModel),
	}

	if err := s.restore(); err != nil {
		return nil, err
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &s, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {

	// Make sure the storage is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all background mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist()

	return nil
}

// =============================================================================

// restore loads the snapshot from storage into memory.
func (s *State) restore() error {
	snapshot, err := s.storage.Read()
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.evHandler("state: restore: WARNING: unable to read snapshot, starting from genesis: %s", err)
		}
		return s.startGenesis()
	}

	s.evHandler("state: restore: loading chain: blocks[%d]", len(snapshot.Chain))

	chain, err := database.LoadChain(snapshot.Chain)
	if err != nil {
		return fmt.Errorf("validating stored chain: %w", err)
	}
	s.chain = chain

	s.txSeq = chain.LastNonce()

	// Balances always come from the chain. The stored balances only add the
	// accounts created without a transaction.
	if err := s.accounts.Replay(snapshot.Chain); err != nil {
		return fmt.Errorf("replaying stored chain: %w", err)
	}

	switch {
	case snapshot.Accounts == nil:
		s.evHandler("state: restore: accounts missing, balances replayed from chain")
	default:
		if diff := s.accounts.Reconcile(snapshot.Accounts); len(diff) > 0 {
			s.evHandler("state: restore: WARNING: stored balances disagree with chain, using chain: accounts%v", diff)
		}
	}

	for addr, contract := range snapshot.Contracts {
		s.contracts[addr] = contract.Clone()
	}

	for id, model := range snapshot.AIModels {
		s.aiModels[id] = model.Clone()
	}

	return nil
}

// startGenesis creates a fresh chain from the genesis information and
// persists it.
func (s *State) startGenesis() error {
	s.evHandler("state: startGenesis: creating genesis block: difficulty[%d]", s.genesis.Difficulty)

	s.chain = database.NewChain(database.NewGenesisBlock(s.genesis.Date, s.genesis.Difficulty))
	s.accounts.Reset()

	s.persist()

	return nil
}

// persist writes the current snapshot to storage. The caller must hold the
// lock. Failures are reported and the ledger keeps running, the next
// successful write brings storage back in line.
func (s *State) persist() {
	snapshot := database.Snapshot{
		Chain:     s.chain.Blocks(),
		Accounts:  s.accounts.Copy(),
		Contracts: make(map[database.Address]database.Contract, len(s.contracts)),
		AIModels:  make(map[string]database.AIModel, len(s.aiModels)),
	}

	for addr, contract := range s.contracts {
		snapshot.Contracts[addr] = contract.Clone()
	}

	for id, model := range s.aiModels {
		snapshot.AIModels[id] = model.Clone()
	}

	if err := s.storage.Write(snapshot); err != nil {
		s.evHandler("state: persist: ERROR: %s", err)
	}
}

// now returns the current time in unix seconds.
func (s *State) now() uint64 {
	return uint64(s.clock().UTC().Unix())
}

// signalMining tells the worker, if one is running, there is work to do.
func (s *State) signalMining() {
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}
}
