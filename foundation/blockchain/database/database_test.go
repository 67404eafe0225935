package database_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	acctA = database.Address("KTR1000000000000000000000000000000")
	acctB = database.Address("KTR2000000000000000000000000000000")
	miner = database.Address("KTR9000000000000000000000000000000")
)

// =============================================================================

func Test_Chain(t *testing.T) {
	t.Log("Given the need to validate the chain linkage and hash rules.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen appending blocks to a new chain.", testID)
		{
			genesis := database.NewGenesisBlock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 4)
			chain := database.NewChain(genesis)

			if genesis.PreviousHash != signature.ZeroHash || genesis.Index != 0 || genesis.Nonce != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have fixed genesis fields.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have fixed genesis fields.", success, testID)

			block := mine(t, chain.Tip(), 1)
			if err := chain.Append(block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to append a mined block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to append a mined block.", success, testID)

			if chain.Len() != 2 || chain.Tip().Hash != block.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould have the block as the new tip.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have the block as the new tip.", success, testID)

			stale := mine(t, genesis, 2)
			if err := chain.Append(stale); !errors.Is(err, database.ErrLinkageMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block that does not link to the tip: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block that does not link to the tip.", success, testID)

			tampered := mine(t, chain.Tip(), 3)
			tampered.Transactions[0].Amount = 1_000_000
			if err := chain.Append(tampered); !errors.Is(err, database.ErrHashMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block whose hash does not match: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block whose hash does not match.", success, testID)

			if chain.Len() != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain unchanged after a rejection.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain unchanged after a rejection.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen validating a loaded chain.", testID)
		{
			genesis := database.NewGenesisBlock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 4)
			chain := database.NewChain(genesis)
			for i := 1; i <= 3; i++ {
				if err := chain.Append(mine(t, chain.Tip(), uint64(i))); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to append block %d: %v", failed, testID, i, err)
				}
			}

			if _, err := database.LoadChain(chain.Blocks()); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load a valid chain.", success, testID)

			blocks := chain.Blocks()
			blocks[2].PreviousHash = signature.ZeroHash
			if _, err := database.LoadChain(blocks); !errors.Is(err, database.ErrLinkageMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould detect broken linkage: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould detect broken linkage.", success, testID)

			blocks = chain.Blocks()
			blocks[3].Timestamp++
			if _, err := database.LoadChain(blocks); !errors.Is(err, database.ErrHashMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould detect a rewritten block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould detect a rewritten block.", success, testID)

			if _, err := database.LoadChain(nil); !errors.Is(err, database.ErrEmptyChain) {
				t.Fatalf("\t%s\tTest %d:\tShould reject an empty chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject an empty chain.", success, testID)
		}
	}
}

func Test_Transactions(t *testing.T) {
	t.Log("Given the need to validate transaction construction and hashing.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen constructing a transfer.", testID)
		{
			tx, err := database.NewTransaction(database.NewTx{Sender: acctA, Recipient: acctB, Amount: 100}, 1700000000, 1)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct a transaction.", success, testID)

			if tx.Kind != database.KindTransfer || tx.Status != database.StatusPending {
				t.Fatalf("\t%s\tTest %d:\tShould default to a pending transfer, got %s/%s.", failed, testID, tx.Kind, tx.Status)
			}
			t.Logf("\t%s\tTest %d:\tShould default to a pending transfer.", success, testID)

			confirmed := tx
			confirmed.Status = database.StatusConfirmed
			if confirmed.ComputeHash() != tx.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould not include status in the hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not include status in the hash.", success, testID)

			changed := tx
			changed.Amount = 101
			if changed.ComputeHash() == tx.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould include the amount in the hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould include the amount in the hash.", success, testID)

			if !signature.Verify(tx.SigningBytes(), []byte(tx.Hash)) {
				t.Fatalf("\t%s\tTest %d:\tShould hash the signing bytes.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hash the signing bytes.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen decoding a stored contract transaction.", testID)
		{
			contract := database.ContractAddress(acctA, "code", "seed")
			tx, err := database.NewTransaction(database.NewTx{
				Sender:    acctA,
				Recipient: contract,
				Kind:      database.KindSmartContract,
				Payload:   database.ContractPayload{Action: "execute", ContractAddress: contract, Function: "inc", Args: map[string]any{"by": 2.0}},
			}, 1700000000, 2)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a contract transaction: %v", failed, testID, err)
			}

			data, err := json.Marshal(tx)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to marshal: %v", failed, testID, err)
			}

			var got database.Tx
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal: %v", failed, testID, err)
			}

			p, ok := got.Payload.(database.ContractPayload)
			if !ok || p.Function != "inc" {
				t.Fatalf("\t%s\tTest %d:\tShould decode the payload for the kind, got %T.", failed, testID, got.Payload)
			}
			t.Logf("\t%s\tTest %d:\tShould decode the payload for the kind.", success, testID)

			if got.ComputeHash() != tx.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould keep the same hash after decoding.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the same hash after decoding.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen constructing invalid transactions.", testID)
		{
			invalid := []database.NewTx{
				{Sender: acctA, Recipient: acctB, Amount: -1},
				{Sender: "bad", Recipient: acctB, Amount: 1},
				{Sender: acctA, Recipient: "bad", Amount: 1},
				{Sender: database.NetworkAddress, Recipient: acctB, Amount: 1},
				{Sender: acctA, Recipient: acctB, Amount: 1, Kind: "mystery"},
				{Sender: acctA, Recipient: acctB, Amount: 1, Kind: database.KindAITraining, Payload: database.QuantumPayload{}},
			}

			for i, nt := range invalid {
				if _, err := database.NewTransaction(nt, 1, 1); !errors.Is(err, database.ErrInvalidTransaction) {
					t.Fatalf("\t%s\tTest %d:\tShould reject invalid transaction %d: %v", failed, testID, i, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould reject invalid transactions.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the payload does not survive JSON unchanged.", testID)
		{
			nts := []database.NewTx{
				{Sender: acctA, Recipient: acctB, Amount: 1, Payload: database.TransferPayload{Memo: "\xff"}},
				{Sender: acctA, Recipient: acctB, Amount: 1, Kind: database.KindQuantumComputing, Payload: database.QuantumPayload{Task: "factor", Params: map[string]any{"n": 1<<53 + 1}}},
			}

			for i, nt := range nts {
				tx, err := database.NewTransaction(nt, 1700000000, uint64(i))
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to construct transaction %d: %v", failed, testID, i, err)
				}

				data, err := json.Marshal(tx)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to marshal transaction %d: %v", failed, testID, i, err)
				}

				var got database.Tx
				if err := json.Unmarshal(data, &got); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal transaction %d: %v", failed, testID, i, err)
				}

				if got.ComputeHash() != tx.Hash {
					t.Fatalf("\t%s\tTest %d:\tShould keep the hash of transaction %d after decoding.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould keep the hash after decoding.", success, testID)

			args := map[string]any{"by": 1}
			tx, err := database.NewTransaction(database.NewTx{
				Sender:    acctA,
				Recipient: database.ContractAddress(acctA, "code", "seed"),
				Kind:      database.KindSmartContract,
				Payload:   database.ContractPayload{Action: "execute", Args: args},
			}, 1700000000, 3)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a contract transaction: %v", failed, testID, err)
			}

			args["by"] = 2
			if tx.ComputeHash() != tx.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould not share the payload maps with the caller.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not share the payload maps with the caller.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen two submissions carry the same fields.", testID)
		{
			nt := database.NewTx{Sender: acctA, Recipient: acctB, Amount: 1}

			tx1, err1 := database.NewTransaction(nt, 1700000000, 1)
			tx2, err2 := database.NewTransaction(nt, 1700000000, 2)
			if err1 != nil || err2 != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct both: %v %v", failed, testID, err1, err2)
			}

			if tx1.Hash == tx2.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould hash the submission sequence.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hash the submission sequence.", success, testID)
		}
	}
}

func Test_Addresses(t *testing.T) {
	t.Log("Given the need to generate and validate addresses.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen generating account and contract addresses.", testID)
		{
			addr, err := database.NewAccountAddress()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to generate an account address: %v", failed, testID, err)
			}

			if !addr.IsAccount() || len(addr) != 34 {
				t.Fatalf("\t%s\tTest %d:\tShould generate a valid account address, got %s.", failed, testID, addr)
			}
			t.Logf("\t%s\tTest %d:\tShould generate a valid account address: %s", success, testID, addr)

			contract := database.ContractAddress(addr, "code", "1")
			if !contract.IsContract() || contract.IsAccount() {
				t.Fatalf("\t%s\tTest %d:\tShould generate a valid contract address, got %s.", failed, testID, contract)
			}
			t.Logf("\t%s\tTest %d:\tShould generate a valid contract address: %s", success, testID, contract)

			if !database.NetworkAddress.IsAddress() || database.NetworkAddress.IsAccount() {
				t.Fatalf("\t%s\tTest %d:\tShould treat the network address as reserved.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould treat the network address as reserved.", success, testID)
		}
	}
}

// =============================================================================

// mine constructs and solves the block that follows prev.
func mine(t *testing.T, prev database.Block, seq uint64) database.Block {
	t.Helper()

	tx := database.NewRewardTx(miner, 50, prev.Index+1, 1700000000+seq)

	block := database.Block{
		Index:        prev.Index + 1,
		Timestamp:    prev.Timestamp + 60,
		Transactions: []database.Tx{tx},
		PreviousHash: prev.Hash,
		Difficulty:   prev.Difficulty,
	}

	for nonce := uint64(0); ; nonce++ {
		block.Nonce = nonce
		hash := block.ComputeHash()
		if signature.IsHashSolved(block.Difficulty, hash) {
			block.Hash = hash
			return block
		}
	}
}
