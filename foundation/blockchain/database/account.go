package database

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// NetworkAddress is the reserved sender of mining rewards and the recipient
// of network fees. It is never subject to a balance check as a sender.
const NetworkAddress Address = "NETWORK"

// Address prefixes and the length of the hex portion that follows them.
const (
	accountPrefix  = "KTR"
	accountHexLen  = 31
	contractPrefix = "KTR_SC_"
	contractHexLen = 24
)

// =============================================================================

// Address represents an account or contract that transacts on the ledger.
type Address string

// ToAddress converts a string to an address and validates the string is
// formatted correctly.
func ToAddress(s string) (Address, error) {
	a := Address(s)
	if !a.IsAddress() {
		return "", errors.New("invalid address format")
	}

	return a, nil
}

// NewAccountAddress generates a fresh account address. A new key pair is
// generated and the address is taken from its public key.
func NewAccountAddress() (Address, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}

	return PublicKeyToAddress(privateKey.PublicKey), nil
}

// PublicKeyToAddress converts the public key to a ledger account address.
func PublicKeyToAddress(pk ecdsa.PublicKey) Address {
	hex := strings.ToUpper(crypto.PubkeyToAddress(pk).Hex()[2:])
	return Address(accountPrefix + hex[:accountHexLen])
}

// ContractAddress derives the address for a contract deployed by the owner.
// The seed must be unique per deployment.
func ContractAddress(owner Address, code string, seed string) Address {
	hash := crypto.Keccak256([]byte(string(owner) + seed + code))
	hex := hexutil.Encode(hash)[2:]

	return Address(contractPrefix + hex[:contractHexLen])
}

// IsAddress verifies whether the underlying data represents a valid address.
func (a Address) IsAddress() bool {
	return a.IsAccount() || a.IsContract() || a == NetworkAddress
}

// IsAccount reports whether the address belongs to a user account.
func (a Address) IsAccount() bool {
	if a.IsContract() || !strings.HasPrefix(string(a), accountPrefix) {
		return false
	}

	hex := string(a[len(accountPrefix):])
	return len(hex) == accountHexLen && isHex(hex)
}

// IsContract reports whether the address belongs to a deployed contract.
func (a Address) IsContract() bool {
	if !strings.HasPrefix(string(a), contractPrefix) {
		return false
	}

	hex := string(a[len(contractPrefix):])
	return len(hex) == contractHexLen && isHex(hex)
}

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	return string(a)
}

// =============================================================================

// isHex validates whether each byte is a valid hexadecimal character.
func isHex(s string) bool {
	for _, c := range []byte(s) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
