// Package quantum implements a simulated quantum accelerator. Nonces are
// sampled at random and verification is a measurement over a number of
// shots. The generator is seeded so runs are reproducible.
package quantum

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/oracle"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// Set of default values for the simulation.
const (
	DefaultShots     = 1024
	DefaultThreshold = 0.7
	maxQubits        = 20
)

// Probability a single shot measures a match for a valid and an invalid
// proof.
const (
	validAmplitude   = 0.95
	invalidAmplitude = 0.05
)

// Oracle simulates a quantum accelerator. It is safe for concurrent use.
type Oracle struct {
	mu        sync.Mutex
	rng       *rand.Rand
	shots     int
	threshold float64
}

// New constructs a quantum oracle seeded with the specified value.
func New(seed uint64) *Oracle {
	return &Oracle{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		shots:     DefaultShots,
		threshold: DefaultThreshold,
	}
}

// Verify measures the verification circuit and accepts the proof when the
// share of matching shots is above the threshold.
func (o *Oracle) Verify(data []byte, proof []byte) bool {
	amplitude := invalidAmplitude
	if signature.Verify(data, proof) {
		amplitude = validAmplitude
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	var hits int
	for range o.shots {
		if o.rng.Float64() < amplitude {
			hits++
		}
	}

	return float64(hits)/float64(o.shots) > o.threshold
}

// FindNonce samples nonces from the mining circuit until one seals the body
// under the difficulty or the iterations run out.
func (o *Oracle) FindNonce(body []byte, difficulty uint32, maxIterations uint32) oracle.Result {
	width := min(int(difficulty)+4, maxQubits)
	depth := 2 + int(difficulty)*2

	o.mu.Lock()
	defer o.mu.Unlock()

	for i := uint32(0); i < maxIterations; i++ {
		nonce := o.rng.Uint64()

		hash := signature.SealHash(body, nonce)
		if !signature.IsHashSolved(difficulty, hash) {
			continue
		}

		iterations := i + 1
		return oracle.Result{
			Success: true,
			Nonce:   nonce,
			Hash:    hash,
			Metrics: map[string]any{
				"oracle":          oracle.NameQuantum,
				"iterations":      iterations,
				"circuit_width":   width,
				"circuit_depth":   depth,
				"quantum_speedup": speedup(difficulty, iterations),
			},
		}
	}

	return oracle.Result{
		Metrics: map[string]any{
			"oracle":                 oracle.NameQuantum,
			"circuit_width":          width,
			"circuit_depth":          depth,
			"max_iterations_reached": true,
		},
	}
}

// speedup compares the attempts a classical search is expected to need with
// the attempts this search took.
func speedup(difficulty uint32, iterations uint32) float64 {
	classical := math.Pow(2, float64(difficulty)/2)
	return math.Round(classical/float64(iterations)*1000) / 1000
}
