package disk_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/storage/disk"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Disk(t *testing.T) {
	t.Log("Given the need to persist the ledger snapshot on disk.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen reading an empty data directory.", testID)
		{
			d, err := disk.New(t.TempDir())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the store: %v", failed, testID, err)
			}

			if _, err := d.Read(); !errors.Is(err, database.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould get a not found error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a not found error.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing and reading a snapshot.", testID)
		{
			dir := t.TempDir()
			d, err := disk.New(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the store: %v", failed, testID, err)
			}

			owner := database.Address("KTR1000000000000000000000000000000")
			contract := database.ContractAddress(owner, "code", "1")
			genesis := database.NewGenesisBlock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 4)

			snapshot := database.Snapshot{
				Chain:    []database.Block{genesis},
				Accounts: map[database.Address]float64{owner: 1_000_000},
				Contracts: map[database.Address]database.Contract{
					contract: {Address: contract, Owner: owner, Code: "code", State: map[string]any{"count": 1.0}},
				},
				AIModels: map[string]database.AIModel{
					"m1": {ID: "m1", Owner: owner},
				},
			}

			if err := d.Write(snapshot); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the snapshot: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the snapshot.", success, testID)

			got, err := d.Read()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the snapshot: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to read the snapshot.", success, testID)

			if len(got.Chain) != 1 || got.Chain[0].Hash != genesis.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould get back the same chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the same chain.", success, testID)

			if err := database.Validate(got.Chain); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould get back a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back a valid chain.", success, testID)

			if got.Accounts[owner] != 1_000_000 || got.Contracts[contract].State["count"] != 1.0 || got.AIModels["m1"].Owner != owner {
				t.Fatalf("\t%s\tTest %d:\tShould get back the same registries: %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the same registries.", success, testID)

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to list the data directory: %v", failed, testID, err)
			}
			for _, entry := range entries {
				if strings.HasSuffix(entry.Name(), ".tmp") {
					t.Fatalf("\t%s\tTest %d:\tShould not leave temporary files behind: %s", failed, testID, entry.Name())
				}
			}
			t.Logf("\t%s\tTest %d:\tShould not leave temporary files behind.", success, testID)

			if err := os.Remove(filepath.Join(dir, disk.AccountsFile)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to remove the accounts file: %v", failed, testID, err)
			}

			got, err = d.Read()
			if err != nil || got.Accounts != nil {
				t.Fatalf("\t%s\tTest %d:\tShould read a snapshot without accounts: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould read a snapshot without accounts.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the chain document is corrupt.", testID)
		{
			dir := t.TempDir()
			d, err := disk.New(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the store: %v", failed, testID, err)
			}

			if err := os.WriteFile(filepath.Join(dir, disk.ChainFile), []byte("{not json"), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write a corrupt file: %v", failed, testID, err)
			}

			_, err = d.Read()
			if err == nil || errors.Is(err, database.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould get a decode error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a decode error: %v", success, testID, err)
		}
	}
}
