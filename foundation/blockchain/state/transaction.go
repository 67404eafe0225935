package state

import (
	"fmt"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/mempool"
)

// SubmitTransaction accepts a transaction for inclusion in a future block.
// The sender must hold the amount now, but it is not reserved.
func (s *State) SubmitTransaction(nt database.NewTx) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.submit(nt)
	if err != nil {
		return database.Tx{}, err
	}

	s.signalMining()

	return tx, nil
}

// =============================================================================

// submit stamps the transaction with the next submission sequence and adds
// it to the mempool. The caller must hold the lock.
func (s *State) submit(nt database.NewTx) (database.Tx, error) {
	tx, err := database.NewTransaction(nt, s.now(), s.txSeq+1)
	if err != nil {
		s.evHandler("state: submit: rejected: %s->%s:%v: %s", nt.Sender, nt.Recipient, nt.Amount, err)
		return database.Tx{}, err
	}

	if _, index, found := s.chain.FindTx(tx.Hash); found {
		return database.Tx{}, fmt.Errorf("%w: %s in blk[%d]", mempool.ErrDuplicate, tx.Hash, index)
	}

	if err := s.mempool.Add(tx, s.accounts); err != nil {
		s.evHandler("state: submit: rejected: %s->%s:%v: %s", nt.Sender, nt.Recipient, nt.Amount, err)
		return database.Tx{}, err
	}
	s.txSeq = tx.Nonce

	s.evHandler("state: submit: accepted: tx[%s] kind[%s] pending[%d]", tx.Hash, tx.Kind, s.mempool.Count())

	return tx, nil
}
