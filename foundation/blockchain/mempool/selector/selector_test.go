package selector_test

import (
	"testing"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/mempool/selector"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestSelect(t *testing.T) {
	const (
		acctA = database.Address("KTR1000000000000000000000000000000")
		acctB = database.Address("KTR2000000000000000000000000000000")
		acctC = database.Address("KTR3000000000000000000000000000000")
		to    = database.Address("KTR9000000000000000000000000000000")
	)

	var seq uint64
	tran := func(from database.Address, amount float64) database.Tx {
		seq++
		tx, err := database.NewTransaction(database.NewTx{Sender: from, Recipient: to, Amount: amount}, 1700000000, seq)
		if err != nil {
			t.Fatalf("\t%s \tShould be able to construct transaction: %v", failed, err)
		}
		return tx
	}

	type test struct {
		name     string
		strategy string
		txs      []database.Tx
		best     []database.Tx
	}

	tt := []test{
		{
			name:     "arrival",
			strategy: selector.StrategyArrival,
			txs: []database.Tx{
				tran(acctA, 1), tran(acctA, 2), tran(acctA, 3),
				tran(acctB, 1), tran(acctC, 1), tran(acctB, 2),
			},
			best: []database.Tx{
				tran(acctA, 1), tran(acctA, 2), tran(acctA, 3),
				tran(acctB, 1), tran(acctC, 1), tran(acctB, 2),
			},
		},
		{
			name:     "fair",
			strategy: selector.StrategyFair,
			txs: []database.Tx{
				tran(acctA, 1), tran(acctA, 2), tran(acctA, 3),
				tran(acctB, 1), tran(acctC, 1), tran(acctB, 2),
			},
			best: []database.Tx{
				tran(acctA, 1), tran(acctB, 1), tran(acctC, 1),
				tran(acctA, 2), tran(acctB, 2),
				tran(acctA, 3),
			},
		},
		{
			name:     "fair-empty",
			strategy: selector.StrategyFair,
		},
	}

	t.Log("Given the need to order transactions for the next block.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen using the %s strategy.", testID, tst.strategy)
			{
				f := func(t *testing.T) {
					selectFn, err := selector.Retrieve(tst.strategy)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to retrieve strategy: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to retrieve strategy.", success, testID)

					got := selectFn(tst.txs)
					if len(got) != len(tst.best) {
						t.Fatalf("\t%s\tTest %d:\tShould get back all transactions, got %d, exp %d.", failed, testID, len(got), len(tst.best))
					}

					for i := range got {
						if got[i].Hash != tst.best[i].Hash {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got[i])
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.best[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back the right transaction at %d.", failed, testID, i)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right order.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}

	t.Log("Given the need to reject unknown strategies.")
	{
		if _, err := selector.Retrieve("tip"); err == nil {
			t.Fatalf("\t%s\tShould not be able to retrieve an unknown strategy.", failed)
		}
		t.Logf("\t%s\tShould not be able to retrieve an unknown strategy.", success)
	}
}
