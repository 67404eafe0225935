package state

import (
	"fmt"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// Stats represents a summary of the ledger.
type Stats struct {
	BlockCount    int           `json:"block_count"`
	TxCount       int           `json:"transaction_count"`
	PendingCount  int           `json:"pending_transaction_count"`
	AvgBlockTime  time.Duration `json:"-"`
	AccountCount  int           `json:"account_count"`
	ContractCount int           `json:"smart_contract_count"`
	AIModelCount  int           `json:"ai_model_count"`
	TotalSupply   float64       `json:"total_supply"`
	Difficulty    uint32        `json:"difficulty"`
	LatestHash    string        `json:"latest_hash"`
}

// Verification represents the result of verifying a transaction.
type Verification struct {
	Transaction    database.Tx `json:"transaction"`
	Pending        bool        `json:"pending"`
	BlockIndex     uint64      `json:"block_index"`
	HashValid      bool        `json:"hash_valid"`
	OracleVerified bool        `json:"oracle_verified"`
}

// Verified reports whether the transaction passed every check.
func (v Verification) Verified() bool {
	return v.HashValid && v.OracleVerified
}

// =============================================================================

// QueryBalance returns the balance for the address. Unknown addresses have a
// zero balance.
func (s *State) QueryBalance(address database.Address) float64 {
	return s.accounts.Balance(address)
}

// QueryAccounts returns a copy of every account balance.
func (s *State) QueryAccounts() map[database.Address]float64 {
	return s.accounts.Copy()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryPending returns a copy of the pending transactions in arrival order.
func (s *State) QueryPending() []database.Tx {
	return s.mempool.Copy()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers. The
// range is clamped to the blocks that exist.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.chain.Tip().Index
	if from == QueryLatest {
		from = latest
		to = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.chain.Block(i)
		if err != nil {
			s.evHandler("state: QueryBlocksByNumber: ERROR: %s", err)
			return nil
		}
		out = append(out, block)
	}

	return out
}

// QueryBlocksByAccount returns the set of blocks holding a transaction sent
// or received by the address. If the address is empty, all blocks are
// returned.
func (s *State) QueryBlocksByAccount(address database.Address) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.Block
	for _, block := range s.chain.Blocks() {
		if address == "" {
			out = append(out, block)
			continue
		}

		for _, tx := range block.Transactions {
			if tx.Sender == address || tx.Recipient == address {
				out = append(out, block)
				break
			}
		}
	}

	return out
}

// QueryContract returns a copy of the contract at the specified address.
func (s *State) QueryContract(address database.Address) (database.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, exists := s.contracts[address]
	if !exists {
		return database.Contract{}, fmt.Errorf("%w: %s", ErrContractNotFound, address)
	}

	return contract.Clone(), nil
}

// QueryAIModel returns the model with the specified id.
func (s *State) QueryAIModel(id string) (database.AIModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model, exists := s.aiModels[id]
	if !exists {
		return database.AIModel{}, fmt.Errorf("%w: model %s", ErrNotFound, id)
	}

	return model.Clone(), nil
}

// VerifyTransaction looks up the transaction in the chain and then in the
// mempool. The stored hash is checked against the transaction fields and the
// oracle is asked to verify the proof.
func (s *State) VerifyTransaction(hash string) (Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := Verification{}

	switch tx, index, found := s.chain.FindTx(hash); {
	case found:
		v.Transaction = tx
		v.BlockIndex = index

	default:
		tx, found := s.mempool.Find(hash)
		if !found {
			return Verification{}, fmt.Errorf("%w: transaction %s", ErrNotFound, hash)
		}
		v.Transaction = tx
		v.Pending = true
	}

	v.HashValid = v.Transaction.ComputeHash() == v.Transaction.Hash
	v.OracleVerified = s.oracle.Verify(v.Transaction.SigningBytes(), []byte(v.Transaction.Hash))

	return v, nil
}

// QueryStats returns a summary of the ledger. The average block time covers
// the mined blocks only, genesis is dated by the genesis file.
func (s *State) QueryStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tip := s.chain.Tip()

	var avg time.Duration
	if n := s.chain.Len(); n > 2 {
		first, err := s.chain.Block(1)
		if err == nil && tip.Timestamp > first.Timestamp {
			avg = time.Duration(tip.Timestamp-first.Timestamp) * time.Second / time.Duration(n-2)
		}
	}

	return Stats{
		BlockCount:    s.chain.Len(),
		TxCount:       s.chain.TxCount(),
		PendingCount:  s.mempool.Count(),
		AvgBlockTime:  avg,
		AccountCount:  s.accounts.Count(),
		ContractCount: len(s.contracts),
		AIModelCount:  len(s.aiModels),
		TotalSupply:   s.accounts.Sum(),
		Difficulty:    s.difficulty.Next(s.chain),
		LatestHash:    tip.Hash,
	}
}
