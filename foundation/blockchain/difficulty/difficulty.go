// Package difficulty computes the difficulty of the next block from the
// timestamps of the most recent blocks.
package difficulty

import (
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
)

// Set of default values for the controller.
const (
	DefaultEpoch = 10
	DefaultFast  = 30 * time.Second
	DefaultSlow  = 90 * time.Second
)

// Reader represents the behavior required to read the chain.
type Reader interface {
	Tip() database.Block
	Block(index uint64) (database.Block, error)
}

// =============================================================================

// Controller re-evaluates the difficulty once every epoch. When the average
// time between blocks over the last epoch is below Fast the difficulty goes
// up by one, when it is above Slow it goes down by one. Anything in between
// leaves the difficulty unchanged.
type Controller struct {
	Epoch uint64
	Fast  time.Duration
	Slow  time.Duration
}

// New constructs a controller with the default epoch and thresholds.
func New() Controller {
	return Controller{
		Epoch: DefaultEpoch,
		Fast:  DefaultFast,
		Slow:  DefaultSlow,
	}
}

// Next returns the difficulty for the block that follows the tip of the
// chain. The difficulty is never lower than 1.
func (c Controller) Next(chain Reader) uint32 {
	tip := chain.Tip()

	if c.Epoch < 2 || tip.Index == 0 || tip.Index%c.Epoch != 0 {
		return floor(tip.Difficulty)
	}

	first, err := chain.Block(tip.Index - c.Epoch + 1)
	if err != nil {
		return floor(tip.Difficulty)
	}

	avg := c.Average(first.Timestamp, tip.Timestamp)

	switch {
	case avg < c.Fast:
		return tip.Difficulty + 1
	case avg > c.Slow:
		if tip.Difficulty <= 1 {
			return 1
		}
		return tip.Difficulty - 1
	}

	return floor(tip.Difficulty)
}

// Average returns the average time between the epoch's blocks given the
// timestamps of the first and last block.
func (c Controller) Average(first uint64, last uint64) time.Duration {
	if last <= first || c.Epoch < 2 {
		return 0
	}

	span := time.Duration(last-first) * time.Second
	return span / time.Duration(c.Epoch-1)
}

// floor keeps the difficulty at 1 or above.
func floor(difficulty uint32) uint32 {
	if difficulty < 1 {
		return 1
	}
	return difficulty
}
