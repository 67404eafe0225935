package state

import (
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
)

// CreateAccount generates a new account address with a zero balance.
func (s *State) CreateAccount() (database.Address, error) {
	address, err := database.NewAccountAddress()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accounts.Create(address); err != nil {
		return "", err
	}

	s.evHandler("state: CreateAccount: account[%s]", address)

	s.persist()

	return address, nil
}
