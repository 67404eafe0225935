package ledgergrp

import (
	"encoding/json"
	"fmt"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/state"
	"github.com/Dhushyanthcpu/lib/foundation/validate"
)

type account struct {
	Address database.Address `json:"address"`
	Name    string           `json:"name,omitempty"`
	Balance float64          `json:"balance"`
}

type newTx struct {
	Sender    string          `json:"sender" validate:"required,ktr"`
	Recipient string          `json:"recipient" validate:"required,ktr"`
	Amount    float64         `json:"amount" validate:"gte=0"`
	Kind      string          `json:"type" validate:"omitempty,oneof=transfer smart_contract ai_training quantum_computing"`
	Data      json.RawMessage `json:"data"`
}

// Validate checks the data in the model is considered clean.
func (ntx newTx) Validate() error {
	return validate.Check(ntx)
}

func toNewTx(ntx newTx) (database.NewTx, error) {
	kind, err := database.ToKind(ntx.Kind)
	if err != nil {
		return database.NewTx{}, err
	}

	payload, err := database.DecodePayload(kind, ntx.Data)
	if err != nil {
		return database.NewTx{}, fmt.Errorf("%w: data: %s", database.ErrInvalidTransaction, err)
	}

	return database.NewTx{
		Sender:    database.Address(ntx.Sender),
		Recipient: database.Address(ntx.Recipient),
		Amount:    ntx.Amount,
		Kind:      kind,
		Payload:   payload,
	}, nil
}

type mine struct {
	Miner string `json:"miner_address" validate:"required,ktr"`
}

// Validate checks the data in the model is considered clean.
func (m mine) Validate() error {
	return validate.Check(m)
}

type newContract struct {
	Owner        string         `json:"owner" validate:"required,ktr"`
	Code         string         `json:"code" validate:"required"`
	InitialState map[string]any `json:"initial_state"`
}

// Validate checks the data in the model is considered clean.
func (nc newContract) Validate() error {
	return validate.Check(nc)
}

type execute struct {
	Caller   string         `json:"caller" validate:"required,ktr"`
	Function string         `json:"function" validate:"required"`
	Args     map[string]any `json:"args"`
	Amount   float64        `json:"amount" validate:"gte=0"`
}

// Validate checks the data in the model is considered clean.
func (e execute) Validate() error {
	return validate.Check(e)
}

type newModel struct {
	Owner  string         `json:"owner" validate:"required,ktr"`
	Config map[string]any `json:"config"`
}

// Validate checks the data in the model is considered clean.
func (nm newModel) Validate() error {
	return validate.Check(nm)
}

type submitted struct {
	Transaction database.Tx `json:"transaction"`
	Contract    any         `json:"contract,omitempty"`
	Model       any         `json:"model,omitempty"`
}

type stats struct {
	BlockCount    int     `json:"block_count"`
	TxCount       int     `json:"transaction_count"`
	PendingCount  int     `json:"pending_transaction_count"`
	AvgBlockTime  float64 `json:"avg_block_time"`
	AccountCount  int     `json:"account_count"`
	ContractCount int     `json:"smart_contract_count"`
	AIModelCount  int     `json:"ai_model_count"`
	TotalSupply   float64 `json:"total_supply"`
	Difficulty    uint32  `json:"difficulty"`
	LatestHash    string  `json:"latest_hash"`
}

func toStats(s state.Stats) stats {
	return stats{
		BlockCount:    s.BlockCount,
		TxCount:       s.TxCount,
		PendingCount:  s.PendingCount,
		AvgBlockTime:  s.AvgBlockTime.Seconds(),
		AccountCount:  s.AccountCount,
		ContractCount: s.ContractCount,
		AIModelCount:  s.AIModelCount,
		TotalSupply:   s.TotalSupply,
		Difficulty:    s.Difficulty,
		LatestHash:    s.LatestHash,
	}
}

type verification struct {
	state.Verification
	Verified bool `json:"verified"`
}
