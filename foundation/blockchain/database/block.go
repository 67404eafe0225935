package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// Set of errors returned when a block does not belong on the chain.
var (
	ErrLinkageMismatch  = errors.New("block does not link to the tip of the chain")
	ErrHashMismatch     = errors.New("block hash does not match its contents")
	ErrDifficultyNotMet = errors.New("block hash does not satisfy its difficulty")
)

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index         uint64         `json:"index"`
	Timestamp     uint64         `json:"timestamp"`
	Transactions  []Tx           `json:"transactions"`
	PreviousHash  string         `json:"previous_hash"`
	Nonce         uint64         `json:"nonce"`
	Difficulty    uint32         `json:"difficulty"`
	Hash          string         `json:"hash"`
	OracleMetrics map[string]any `json:"oracle_metrics"`
}

// NewGenesisBlock constructs the fixed first block of the chain.
func NewGenesisBlock(date time.Time, difficulty uint32) Block {
	b := Block{
		Index:         0,
		Timestamp:     uint64(date.UTC().Unix()),
		Transactions:  []Tx{},
		PreviousHash:  signature.ZeroHash,
		Nonce:         0,
		Difficulty:    difficulty,
		OracleMetrics: map[string]any{},
	}
	b.Hash = b.ComputeHash()

	return b
}

// Body returns the canonical bytes of the block without the nonce, hash and
// oracle metrics. This is what is handed to an oracle to search for a nonce.
func (b Block) Body() []byte {
	trans := b.Transactions
	if trans == nil {
		trans = []Tx{}
	}

	body := struct {
		Index        uint64 `json:"index"`
		Timestamp    uint64 `json:"timestamp"`
		Transactions []Tx   `json:"transactions"`
		PreviousHash string `json:"previous_hash"`
		Difficulty   uint32 `json:"difficulty"`
	}{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		Transactions: trans,
		PreviousHash: b.PreviousHash,
		Difficulty:   b.Difficulty,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	return data
}

// ComputeHash returns the hash of the block sealed with its current nonce.
func (b Block) ComputeHash() string {
	return signature.SealHash(b.Body(), b.Nonce)
}

// ValidateBlock takes a block and validates it to be the next block after
// the specified previous block.
func (b Block) ValidateBlock(previousBlock Block) error {
	if b.Index != previousBlock.Index+1 {
		return fmt.Errorf("%w: this block is not the next number, got %d, exp %d", ErrLinkageMismatch, b.Index, previousBlock.Index+1)
	}

	if b.PreviousHash != previousBlock.Hash {
		return fmt.Errorf("%w: parent hash doesn't match our known parent, got %s, exp %s", ErrLinkageMismatch, b.PreviousHash, previousBlock.Hash)
	}

	return b.validateHash()
}

// validateHash recomputes the hash of the block and checks it against the
// stored hash and the difficulty predicate. Genesis is not mined so the
// predicate does not apply to it.
func (b Block) validateHash() error {
	hash := b.ComputeHash()
	if hash != b.Hash {
		return fmt.Errorf("%w: blk[%d], got %s, exp %s", ErrHashMismatch, b.Index, b.Hash, hash)
	}

	if b.Index > 0 && !signature.IsHashSolved(b.Difficulty, hash) {
		return fmt.Errorf("%w: blk[%d], difficulty %d", ErrDifficultyNotMet, b.Index, b.Difficulty)
	}

	return nil
}
