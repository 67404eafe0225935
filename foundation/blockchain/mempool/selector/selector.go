// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyArrival = "arrival"
	StrategyFair    = "fair"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyArrival: arrivalSelect,
	StrategyFair:    fairSelect,
}

// Func defines a function that takes the pending transactions in arrival
// order and returns all of them in an order based on the functions strategy.
// All selector functions MUST keep the arrival order of transactions from
// the same sender, since a later transaction may depend on the balance left
// by an earlier one.
type Func func(transactions []database.Tx) []database.Tx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// arrivalSelect returns the transactions in the order they were submitted.
var arrivalSelect = func(transactions []database.Tx) []database.Tx {
	return append([]database.Tx(nil), transactions...)
}

// fairSelect returns one transaction per sender per row so a sender with a
// large backlog can't push everyone else to the end of the block.
var fairSelect = func(transactions []database.Tx) []database.Tx {

	/*
		Arrival order:
			A1, A2, A3, B1, C1, B2

		Grouped by sender, keeping the order senders were first seen:
			A: A1, A2, A3
			B: B1, B2
			C: C1

		Rows:
			0: A1, B1, C1
			1: A2, B2
			2: A3
	*/

	var senders []database.Address
	m := make(map[database.Address][]database.Tx)
	for _, tx := range transactions {
		if _, exists := m[tx.Sender]; !exists {
			senders = append(senders, tx.Sender)
		}
		m[tx.Sender] = append(m[tx.Sender], tx)
	}

	final := make([]database.Tx, 0, len(transactions))
	for len(final) < len(transactions) {
		for _, sender := range senders {
			if len(m[sender]) > 0 {
				final = append(final, m[sender][0])
				m[sender] = m[sender][1:]
			}
		}
	}

	return final
}
