// Package oracle defines the contract for the accelerators that search for
// block nonces and verify transaction proofs. An oracle is never trusted, the
// caller checks every result it returns.
package oracle

import "fmt"

// Set of oracle names that can be configured.
const (
	NameSHA     = "sha"
	NameQuantum = "quantum"
)

// Oracle represents the behavior required to find nonces and verify proofs.
type Oracle interface {
	Verify(data []byte, proof []byte) bool
	FindNonce(body []byte, difficulty uint32, maxIterations uint32) Result
}

// Result is what an oracle returns from a nonce search. Metrics are opaque to
// the ledger and are stored with the block as reported.
type Result struct {
	Success bool
	Nonce   uint64
	Hash    string
	Metrics map[string]any
}

// String implements the fmt.Stringer interface for logging.
func (r Result) String() string {
	if !r.Success {
		return "oracle: no nonce found"
	}
	return fmt.Sprintf("oracle: nonce[%d] hash[%s]", r.Nonce, r.Hash)
}
