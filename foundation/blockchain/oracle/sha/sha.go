// Package sha implements a deterministic oracle that performs a sequential
// sha256 nonce search.
package sha

import (
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/oracle"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// Oracle searches nonces starting at zero. Identical inputs always produce
// identical results.
type Oracle struct{}

// New constructs a sha oracle.
func New() *Oracle {
	return &Oracle{}
}

// Verify reports whether the proof is the hash of the data.
func (*Oracle) Verify(data []byte, proof []byte) bool {
	return signature.Verify(data, proof)
}

// FindNonce tries nonces in order until one seals the body under the
// difficulty or the iterations run out.
func (*Oracle) FindNonce(body []byte, difficulty uint32, maxIterations uint32) oracle.Result {
	start := time.Now()

	for i := uint32(0); i < maxIterations; i++ {
		nonce := uint64(i)

		hash := signature.SealHash(body, nonce)
		if !signature.IsHashSolved(difficulty, hash) {
			continue
		}

		return oracle.Result{
			Success: true,
			Nonce:   nonce,
			Hash:    hash,
			Metrics: map[string]any{
				"oracle":     oracle.NameSHA,
				"iterations": i + 1,
				"elapsed_ms": time.Since(start).Milliseconds(),
			},
		}
	}

	return oracle.Result{
		Metrics: map[string]any{
			"oracle":                 oracle.NameSHA,
			"max_iterations_reached": true,
		},
	}
}
