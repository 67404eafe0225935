// Package signature provides helper functions for handling the blockchain
// hashing and proof-of-work needs.
package signature

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// targetSpace is the range of the 16 bit prefix of a hash that is compared
// against the difficulty target.
const targetSpace = 1 << 16

// =============================================================================

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// HashBytes returns the hex encoded sha256 of the specified data.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// SealHash returns the hash for a block body sealed with the specified nonce.
// The nonce is appended to the body in big endian form before hashing.
func SealHash(body []byte, nonce uint64) string {
	data := make([]byte, len(body)+8)
	copy(data, body)
	binary.BigEndian.PutUint64(data[len(body):], nonce)

	return HashBytes(data)
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The first 16 bits of the hash must be smaller than 65536/(difficulty+1) so
// every increase in difficulty shrinks the set of acceptable hashes.
func IsHashSolved(difficulty uint32, hash string) bool {
	raw, err := hexutil.Decode(hash)
	if err != nil || len(raw) != sha256.Size {
		return false
	}

	prefix := uint64(binary.BigEndian.Uint16(raw[:2]))
	target := uint64(targetSpace) / (uint64(difficulty) + 1)

	return prefix < target
}

// Verify reports whether the proof is the hex encoded hash of the data.
func Verify(data []byte, proof []byte) bool {
	return HashBytes(data) == string(proof)
}
