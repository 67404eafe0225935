package worker_test

import (
	"testing"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/genesis"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/oracle/sha"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/state"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/storage/memory"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_AutoMine(t *testing.T) {
	t.Log("Given the need to mine submitted transactions in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a transfer is submitted to a running worker.", testID)
		{
			st, err := state.New(state.Config{
				Genesis: genesis.Default(),
				Storage: memory.New(),
				Oracle:  sha.New(),
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the ledger: %v", failed, testID, err)
			}

			miner := database.Address("KTR9000000000000000000000000000000")
			worker.Run(st, miner, func(v string, args ...any) { t.Logf(v, args...) })

			_, err = st.SubmitTransaction(database.NewTx{
				Sender:    "KTR1000000000000000000000000000000",
				Recipient: "KTR2000000000000000000000000000000",
				Amount:    10,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit the transfer: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to submit the transfer.", success, testID)

			deadline := time.Now().Add(10 * time.Second)
			for st.RetrieveChainLength() < 2 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest %d:\tShould mine the transfer in the background.", failed, testID)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest %d:\tShould mine the transfer in the background.", success, testID)

			if err := st.Shutdown(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to shut down: %v", failed, testID, err)
			}

			if st.QueryMempoolLength() != 0 || st.QueryBalance(miner) != genesis.Default().MiningReward {
				t.Fatalf("\t%s\tTest %d:\tShould pay the miner and empty the pool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould pay the miner and empty the pool.", success, testID)
		}
	}
}
