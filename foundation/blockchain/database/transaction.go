package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// ErrInvalidTransaction is returned when a transaction is malformed.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Kind represents the type of work a transaction performs.
type Kind string

// Set of transaction kinds the ledger understands.
const (
	KindTransfer         Kind = "transfer"
	KindSmartContract    Kind = "smart_contract"
	KindAITraining       Kind = "ai_training"
	KindQuantumComputing Kind = "quantum_computing"
)

// ToKind converts a string to a transaction kind. An empty string is
// treated as a transfer.
func ToKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return KindTransfer, nil
	case KindTransfer, KindSmartContract, KindAITraining, KindQuantumComputing:
		return k, nil
	}

	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, s)
}

// Status represents where a transaction is in its lifecycle.
type Status string

// Set of transaction states.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// =============================================================================

// Payload represents the kind specific data carried by a transaction.
type Payload interface {
	Kind() Kind
}

// TransferPayload is the data for a value transfer. Rewards issued by the
// network carry the block they were minted for.
type TransferPayload struct {
	Reward bool   `json:"reward,omitempty"`
	Block  uint64 `json:"block,omitempty"`
	Memo   string `json:"memo,omitempty"`
}

// Kind implements the Payload interface.
func (TransferPayload) Kind() Kind { return KindTransfer }

// ContractPayload is the data for a contract deployment or execution.
type ContractPayload struct {
	Action          string         `json:"action"`
	ContractAddress Address        `json:"contract_address"`
	Function        string         `json:"function,omitempty"`
	Args            map[string]any `json:"args,omitempty"`
}

// Kind implements the Payload interface.
func (ContractPayload) Kind() Kind { return KindSmartContract }

// AITrainingPayload is the data for registering an AI model.
type AITrainingPayload struct {
	Action      string         `json:"action"`
	ModelID     string         `json:"model_id,omitempty"`
	ModelConfig map[string]any `json:"model_config,omitempty"`
}

// Kind implements the Payload interface.
func (AITrainingPayload) Kind() Kind { return KindAITraining }

// QuantumPayload is the data for a quantum computing job.
type QuantumPayload struct {
	Task   string         `json:"task"`
	Params map[string]any `json:"params,omitempty"`
}

// Kind implements the Payload interface.
func (QuantumPayload) Kind() Kind { return KindQuantumComputing }

// DecodePayload decodes the raw payload for the specified kind.
func DecodePayload(kind Kind, data json.RawMessage) (Payload, error) {
	empty := len(data) == 0 || string(data) == "null"

	switch kind {
	case KindTransfer:
		var p TransferPayload
		if !empty {
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
		}
		return p, nil

	case KindSmartContract:
		var p ContractPayload
		if !empty {
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
		}
		return p, nil

	case KindAITraining:
		var p AITrainingPayload
		if !empty {
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
		}
		return p, nil

	case KindQuantumComputing:
		var p QuantumPayload
		if !empty {
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}

	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, kind)
}

// canonicalPayload passes the payload through JSON and back. Invalid UTF-8
// becomes U+FFFD and every number becomes a float64, so the bytes hashed
// now are the bytes hashed after the chain is reloaded. The maps in the
// result are not shared with the caller.
func canonicalPayload(p Payload) (Payload, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrInvalidTransaction, err)
	}

	return DecodePayload(p.Kind(), data)
}

// defaultPayload returns the empty payload for the specified kind.
func defaultPayload(kind Kind) (Payload, error) {
	return DecodePayload(kind, nil)
}

// =============================================================================

// NewTx is what a caller provides to have a transaction created.
type NewTx struct {
	Sender    Address
	Recipient Address
	Amount    float64
	Kind      Kind
	Payload   Payload
}

// Tx is the transactional information between two parties. The nonce is the
// ledger's submission sequence, it keeps identical submissions apart.
type Tx struct {
	Sender    Address `json:"sender"`
	Recipient Address `json:"recipient"`
	Amount    float64 `json:"amount"`
	Timestamp uint64  `json:"timestamp"`
	Nonce     uint64  `json:"nonce"`
	Kind      Kind    `json:"kind"`
	Payload   Payload `json:"payload"`
	Status    Status  `json:"status"`
	Hash      string  `json:"hash"`
}

// NewTransaction validates the caller's information and constructs a pending
// transaction stamped with the specified time and submission sequence.
func NewTransaction(nt NewTx, timestamp uint64, nonce uint64) (Tx, error) {
	kind, err := ToKind(string(nt.Kind))
	if err != nil {
		return Tx{}, err
	}

	payload := nt.Payload
	if payload == nil {
		if payload, err = defaultPayload(kind); err != nil {
			return Tx{}, err
		}
	}

	if payload.Kind() != kind {
		return Tx{}, fmt.Errorf("%w: payload of kind %q for %q transaction", ErrInvalidTransaction, payload.Kind(), kind)
	}

	// The payload is hashed as it will read back from storage.
	if payload, err = canonicalPayload(payload); err != nil {
		return Tx{}, err
	}

	if nt.Sender == NetworkAddress {
		return Tx{}, fmt.Errorf("%w: %s can't be used as a sender", ErrInvalidTransaction, NetworkAddress)
	}

	tx := Tx{
		Sender:    nt.Sender,
		Recipient: nt.Recipient,
		Amount:    nt.Amount,
		Timestamp: timestamp,
		Nonce:     nonce,
		Kind:      kind,
		Payload:   payload,
		Status:    StatusPending,
	}

	if err := tx.Validate(); err != nil {
		return Tx{}, err
	}

	tx.Hash = tx.ComputeHash()

	return tx, nil
}

// NewRewardTx constructs the network issued transaction that pays the miner
// of the specified block.
func NewRewardTx(miner Address, amount float64, block uint64, timestamp uint64) Tx {
	tx := Tx{
		Sender:    NetworkAddress,
		Recipient: miner,
		Amount:    amount,
		Timestamp: timestamp,
		Kind:      KindTransfer,
		Payload:   TransferPayload{Reward: true, Block: block},
		Status:    StatusConfirmed,
	}
	tx.Hash = tx.ComputeHash()

	return tx
}

// Validate checks the fields of the transaction are well formed.
func (tx Tx) Validate() error {
	if !tx.Sender.IsAddress() {
		return fmt.Errorf("%w: sender %q is not properly formatted", ErrInvalidTransaction, tx.Sender)
	}

	if !tx.Recipient.IsAddress() {
		return fmt.Errorf("%w: recipient %q is not properly formatted", ErrInvalidTransaction, tx.Recipient)
	}

	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) || tx.Amount < 0 {
		return fmt.Errorf("%w: amount %v must be a non-negative number", ErrInvalidTransaction, tx.Amount)
	}

	if tx.Payload == nil {
		return fmt.Errorf("%w: missing payload", ErrInvalidTransaction)
	}

	return nil
}

// IsReward reports whether the transaction was issued by the network.
func (tx Tx) IsReward() bool {
	return tx.Sender == NetworkAddress
}

// SigningBytes returns the canonical bytes the transaction hash is computed
// over. Status and hash are not part of it.
func (tx Tx) SigningBytes() []byte {
	data, err := json.Marshal(tx.hashable())
	if err != nil {
		return nil
	}
	return data
}

// ComputeHash returns the hash of the transaction's canonical fields.
func (tx Tx) ComputeHash() string {
	return signature.HashBytes(tx.SigningBytes())
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Recipient, tx.Amount)
}

// UnmarshalJSON decodes the payload based on the transaction kind.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	type alias Tx
	aux := struct {
		*alias
		Payload json.RawMessage `json:"payload"`
	}{
		alias: (*alias)(tx),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	kind, err := ToKind(string(tx.Kind))
	if err != nil {
		return err
	}
	tx.Kind = kind

	payload, err := DecodePayload(kind, aux.Payload)
	if err != nil {
		return err
	}
	tx.Payload = payload

	return nil
}

// hashable returns the fields that make up the transaction hash in a
// fixed order.
func (tx Tx) hashable() any {
	return struct {
		Sender    Address `json:"sender"`
		Recipient Address `json:"recipient"`
		Amount    float64 `json:"amount"`
		Timestamp uint64  `json:"timestamp"`
		Nonce     uint64  `json:"nonce"`
		Kind      Kind    `json:"kind"`
		Payload   Payload `json:"payload"`
	}{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
		Nonce:     tx.Nonce,
		Kind:      tx.Kind,
		Payload:   tx.Payload,
	}
}
