// Package disk implements the ability to persist the ledger snapshot as a set
// of JSON documents inside a data directory.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
)

// Set of file names that make up a snapshot on disk.
const (
	ChainFile     = "chain.json"
	AccountsFile  = "accounts.json"
	ContractsFile = "contracts.json"
	AIModelsFile  = "ai_models.json"
)

// Disk represents the serialization implementation for reading and storing
// the ledger snapshot on disk. Every document is replaced atomically, a
// reader never observes a partially written file. This implements the
// database.Storage interface.
type Disk struct {
	mu     sync.Mutex
	dbPath string
}

// New constructs a Disk value for use, creating the data directory when it
// does not exist.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since every document is
// written and closed on each write.
func (d *Disk) Close() error {
	return nil
}

// Write replaces each document on disk with the contents of the snapshot.
// The chain is written last. An interrupted write can leave newer balances
// next to the previous chain, the ledger replays balances from the chain
// when it starts so the chain is the document that counts.
func (d *Disk) Write(snapshot database.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	docs := []struct {
		name string
		v    any
	}{
		{AccountsFile, snapshot.Accounts},
		{ContractsFile, snapshot.Contracts},
		{AIModelsFile, snapshot.AIModels},
		{ChainFile, snapshot.Chain},
	}

	for _, doc := range docs {
		if err := d.writeFile(doc.name, doc.v); err != nil {
			return fmt.Errorf("write %s: %w", doc.name, err)
		}
	}

	return nil
}

// Read loads the snapshot from disk. If there is no chain document, the
// database.ErrNotFound error is returned. Registries that are missing are
// returned as nil maps.
func (d *Disk) Read() (database.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var snapshot database.Snapshot

	switch err := d.readFile(ChainFile, &snapshot.Chain); {
	case errors.Is(err, fs.ErrNotExist):
		return database.Snapshot{}, database.ErrNotFound
	case err != nil:
		return database.Snapshot{}, fmt.Errorf("read %s: %w", ChainFile, err)
	}

	docs := []struct {
		name string
		v    any
	}{
		{AccountsFile, &snapshot.Accounts},
		{ContractsFile, &snapshot.Contracts},
		{AIModelsFile, &snapshot.AIModels},
	}

	for _, doc := range docs {
		if err := d.readFile(doc.name, doc.v); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return database.Snapshot{}, fmt.Errorf("read %s: %w", doc.name, err)
		}
	}

	return snapshot, nil
}

// =============================================================================

// writeFile marshals the value into a temporary file in the data directory,
// syncs it and renames it over the named document.
func (d *Disk) writeFile(name string, v any) error {

	// Marshal the document in a more human readable format.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(d.dbPath, name+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, filepath.Join(d.dbPath, name)); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}

// readFile decodes the named document into the value.
func (d *Disk) readFile(name string, v any) error {
	f, err := os.Open(filepath.Join(d.dbPath, name))
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(v)
}
