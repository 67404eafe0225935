// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date           time.Time          `json:"date"`
	Difficulty     uint32             `json:"difficulty"`       // How difficult it needs to be to solve the work problem.
	MiningReward   float64            `json:"mining_reward"`    // Reward for mining a block.
	MaxIterations  uint32             `json:"max_iterations"`   // Nonce attempts the oracle may make before giving up.
	AITrainingCost float64            `json:"ai_training_cost"` // Fee paid to the network to register an AI model.
	Balances       map[string]float64 `json:"balances"`
}

// Default returns the genesis information the ledger was launched with.
func Default() Genesis {
	return Genesis{
		Date:           time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:     4,
		MiningReward:   50,
		MaxIterations:  1000,
		AITrainingCost: 10,
		Balances: map[string]float64{
			"KTR1000000000000000000000000000000": 1_000_000,
			"KTR2000000000000000000000000000000": 500_000,
			"KTR3000000000000000000000000000000": 250_000,
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// take their value from Default.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	genesis.Balances = nil
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.Balances == nil {
		genesis.Balances = Default().Balances
	}

	return genesis, nil
}
