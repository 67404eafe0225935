package state

import (
	"fmt"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/google/uuid"
)

// Set of actions recorded in contract and model payloads.
const (
	actionDeploy   = "deploy"
	actionExecute  = "execute"
	actionRegister = "register"
)

// DeployContract registers a contract owned by the specified account and
// submits the zero value transaction that records the deployment. The code
// is stored as provided and never executed.
func (s *State) DeployContract(owner database.Address, code string, initialState map[string]any) (database.Contract, database.Tx, error) {
	address := database.ContractAddress(owner, code, uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.submit(database.NewTx{
		Sender:    owner,
		Recipient: address,
		Amount:    0,
		Kind:      database.KindSmartContract,
		Payload: database.ContractPayload{
			Action:          actionDeploy,
			ContractAddress: address,
		},
	})
	if err != nil {
		return database.Contract{}, database.Tx{}, err
	}

	state := database.CopyDocument(initialState)
	if state == nil {
		state = make(map[string]any)
	}

	contract := database.Contract{
		Address:      address,
		Owner:        owner,
		Code:         code,
		State:        state,
		CreatedAt:    tx.Timestamp,
		Transactions: []string{tx.Hash},
	}
	s.contracts[address] = contract

	s.evHandler("state: DeployContract: contract[%s] owner[%s]", address, owner)

	s.persist()
	s.signalMining()

	return contract.Clone(), tx, nil
}

// ExecuteContract submits a call to the contract and records the call in the
// contract state. The amount is paid to the contract address when the
// transaction is mined.
func (s *State) ExecuteContract(address database.Address, caller database.Address, function string, args map[string]any, amount float64) (database.Contract, database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, exists := s.contracts[address]
	if !exists {
		return database.Contract{}, database.Tx{}, fmt.Errorf("%w: %s", ErrContractNotFound, address)
	}

	tx, err := s.submit(database.NewTx{
		Sender:    caller,
		Recipient: address,
		Amount:    amount,
		Kind:      database.KindSmartContract,
		Payload: database.ContractPayload{
			Action:          actionExecute,
			ContractAddress: address,
			Function:        function,
			Args:            args,
		},
	})
	if err != nil {
		return database.Contract{}, database.Tx{}, err
	}

	contract = contract.Clone()
	contract.State["last_execution"] = tx.Timestamp
	contract.State["last_caller"] = string(caller)
	contract.State["last_function"] = function
	contract.State["last_args"] = database.CopyDocument(args)
	contract.State["execution_count"] = executionCount(contract.State) + 1
	contract.Transactions = append(contract.Transactions, tx.Hash)
	s.contracts[address] = contract

	s.evHandler("state: ExecuteContract: contract[%s] caller[%s] function[%s]", address, caller, function)

	s.persist()
	s.signalMining()

	return contract.Clone(), tx, nil
}

// RegisterAIModel stores the model configuration and submits the transaction
// that pays the registration fee to the network. Training happens outside of
// the ledger.
func (s *State) RegisterAIModel(owner database.Address, config map[string]any) (database.AIModel, database.Tx, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.submit(database.NewTx{
		Sender:    owner,
		Recipient: database.NetworkAddress,
		Amount:    s.genesis.AITrainingCost,
		Kind:      database.KindAITraining,
		Payload: database.AITrainingPayload{
			Action:      actionRegister,
			ModelID:     id,
			ModelConfig: config,
		},
	})
	if err != nil {
		return database.AIModel{}, database.Tx{}, err
	}

	model := database.AIModel{
		ID:              id,
		Owner:           owner,
		Config:          database.CopyDocument(config),
		CreatedAt:       tx.Timestamp,
		TransactionHash: tx.Hash,
	}
	s.aiModels[id] = model.Clone()

	s.evHandler("state: RegisterAIModel: model[%s] owner[%s]", id, owner)

	s.persist()
	s.signalMining()

	return model, tx, nil
}

// =============================================================================

// executionCount reads the execution counter from the contract state. The
// counter is a float64 once the state has been through JSON.
func executionCount(state map[string]any) int {
	switch n := state["execution_count"].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
