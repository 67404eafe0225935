package state

import (
	"fmt"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/accounts"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// MineNewBlock drains the mempool, asks the oracle to seal a new block and
// commits it to the chain and the account balances. The whole operation holds
// the exclusive lock, no submission or other mining can interleave with it.
// When the block can't be mined the pending transactions are returned to the
// mempool and no state is changed.
func (s *State) MineNewBlock(miner database.Address) (database.Block, error) {
	if !miner.IsAccount() {
		return database.Block{}, fmt.Errorf("%w: miner %q is not an account address", database.ErrInvalidTransaction, miner)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there any transactions in the pool.
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoPendingTransactions
	}

	drained := s.mempool.Drain()

	s.evHandler("state: MineNewBlock: MINING: validate balances: txs[%d]", len(drained))

	// Apply each transaction to a scratch copy of the balances. Transactions
	// that would overdraw their sender, given the ones before it in this
	// batch, wait for a later block.
	balances := s.accounts.Copy()
	var included, deferred []database.Tx
	for _, tx := range drained {
		if err := accounts.ApplyTransaction(balances, tx); err != nil {
			s.evHandler("state: MineNewBlock: MINING: deferring tx[%s]: %s", tx.Hash, err)
			deferred = append(deferred, tx)
			continue
		}
		included = append(included, tx)
	}

	if len(included) == 0 {
		s.mempool.Restore(deferred)
		return database.Block{}, fmt.Errorf("%w: all %d transactions deferred", ErrNoPendingTransactions, len(deferred))
	}

	block := s.candidateBlock(miner, included)

	s.evHandler("state: MineNewBlock: MINING: find nonce: blk[%d] difficulty[%d] maxIterations[%d]", block.Index, block.Difficulty, s.maxIterations)

	res := s.oracle.FindNonce(block.Body(), block.Difficulty, s.maxIterations)
	if !res.Success {
		s.mempool.Restore(drained)
		return database.Block{}, fmt.Errorf("%w: no nonce within %d iterations", ErrOracleFailed, s.maxIterations)
	}

	// The oracle is not trusted. The hash is recomputed from the body and
	// the nonce and checked against the difficulty.
	block.Nonce = res.Nonce
	hash := block.ComputeHash()
	if hash != res.Hash || !signature.IsHashSolved(block.Difficulty, hash) {
		s.evHandler("state: MineNewBlock: MINING: WARNING: oracle result rejected: %s", res)
		s.mempool.Restore(drained)
		return database.Block{}, fmt.Errorf("%w: reported hash %s does not seal the block", ErrOracleFailed, res.Hash)
	}
	block.Hash = hash

	block.OracleMetrics = res.Metrics
	if block.OracleMetrics == nil {
		block.OracleMetrics = map[string]any{}
	}

	if err := s.commit(block); err != nil {
		s.mempool.Restore(drained)
		return database.Block{}, err
	}

	s.mempool.Restore(deferred)

	s.evHandler("state: MineNewBlock: MINING: block committed: blk[%d] hash[%s] txs[%d] deferred[%d]", block.Index, block.Hash, len(block.Transactions), len(deferred))

	s.persist()

	return block, nil
}

// =============================================================================

// candidateBlock assembles the next block from the included transactions and
// the reward for the miner. Every transaction is marked confirmed before the
// block is sealed since the status is part of the stored block.
func (s *State) candidateBlock(miner database.Address, included []database.Tx) database.Block {
	tip := s.chain.Tip()

	// Block timestamps never go backwards.
	timestamp := s.now()
	if timestamp < tip.Timestamp {
		timestamp = tip.Timestamp
	}

	trans := make([]database.Tx, 0, len(included)+1)
	for _, tx := range included {
		tx.Status = database.StatusConfirmed
		trans = append(trans, tx)
	}
	trans = append(trans, database.NewRewardTx(miner, s.genesis.MiningReward, tip.Index+1, timestamp))

	return database.Block{
		Index:        tip.Index + 1,
		Timestamp:    timestamp,
		Transactions: trans,
		PreviousHash: tip.Hash,
		Difficulty:   s.difficulty.Next(s.chain),
	}
}

// commit validates the sealed block against the tip and applies it to the
// balances and the chain. Neither is changed if any step fails.
func (s *State) commit(block database.Block) error {
	if err := block.ValidateBlock(s.chain.Tip()); err != nil {
		return fmt.Errorf("%w: %w", ErrOracleFailed, err)
	}

	before := s.accounts.Copy()

	if err := s.accounts.ApplyBlock(block); err != nil {
		return err
	}

	if err := s.chain.Append(block); err != nil {
		s.evHandler("state: commit: ERROR: %s", err)
		s.accounts.Replace(before)
		return err
	}

	return nil
}
