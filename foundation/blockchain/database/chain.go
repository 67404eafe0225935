package database

import (
	"errors"
	"fmt"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// ErrEmptyChain is returned when a chain without a genesis block is loaded.
var ErrEmptyChain = errors.New("chain has no genesis block")

// =============================================================================

// Chain is the ordered, hash linked sequence of blocks. A chain always holds
// its genesis block. Chain is not safe for concurrent use, the owner of the
// chain is expected to serialize access.
type Chain struct {
	blocks []Block
}

// NewChain constructs a chain that starts with the specified genesis block.
func NewChain(genesis Block) *Chain {
	return &Chain{
		blocks: []Block{genesis},
	}
}

// LoadChain constructs a chain from blocks that were previously persisted.
// Every block is validated before the chain is returned.
func LoadChain(blocks []Block) (*Chain, error) {
	if err := Validate(blocks); err != nil {
		return nil, err
	}

	cpy := make([]Block, len(blocks))
	copy(cpy, blocks)

	return &Chain{blocks: cpy}, nil
}

// Validate walks the full sequence of blocks verifying linkage and hash
// integrity for every block.
func Validate(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	genesis := blocks[0]
	if genesis.Index != 0 || genesis.PreviousHash != signature.ZeroHash {
		return fmt.Errorf("%w: genesis block is malformed", ErrLinkageMismatch)
	}

	if err := genesis.validateHash(); err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1]); err != nil {
			return err
		}
	}

	return nil
}

// Validate walks the chain verifying linkage and hash integrity.
func (c *Chain) Validate() error {
	return Validate(c.blocks)
}

// Append adds the block to the end of the chain if it links to the tip and
// its hash is correct.
func (c *Chain) Append(block Block) error {
	if err := block.ValidateBlock(c.Tip()); err != nil {
		return err
	}

	c.blocks = append(c.blocks, block)

	return nil
}

// Tip returns the last block in the chain.
func (c *Chain) Tip() Block {
	return c.blocks[len(c.blocks)-1]
}

// Genesis returns the first block in the chain.
func (c *Chain) Genesis() Block {
	return c.blocks[0]
}

// Len returns the number of blocks in the chain, genesis included.
func (c *Chain) Len() int {
	return len(c.blocks)
}

// Block returns the block at the specified index.
func (c *Chain) Block(index uint64) (Block, error) {
	if index >= uint64(len(c.blocks)) {
		return Block{}, fmt.Errorf("block %d does not exist", index)
	}

	return c.blocks[index], nil
}

// Blocks returns a copy of the blocks in the chain.
func (c *Chain) Blocks() []Block {
	cpy := make([]Block, len(c.blocks))
	copy(cpy, c.blocks)

	return cpy
}

// TxCount returns the number of transactions across every block.
func (c *Chain) TxCount() int {
	var n int
	for _, block := range c.blocks {
		n += len(block.Transactions)
	}

	return n
}

// FindTx searches the chain for the transaction with the specified hash
// and returns it with the index of the block that holds it.
func (c *Chain) FindTx(hash string) (Tx, uint64, bool) {
	for _, block := range c.blocks {
		for _, tx := range block.Transactions {
			if tx.Hash == hash {
				return tx, block.Index, true
			}
		}
	}

	return Tx{}, 0, false
}

// LastNonce returns the highest submission sequence recorded in the chain.
func (c *Chain) LastNonce() uint64 {
	var nonce uint64
	for _, block := range c.blocks {
		for _, tx := range block.Transactions {
			nonce = max(nonce, tx.Nonce)
		}
	}

	return nonce
}
