package engine

import "math/rand/v2"

// Rand is the randomness capability injected into the engine. Production
// wiring passes SystemRand; tests pass a fixed or sequenced source so
// waveform generation and parameter derivation are reproducible.
type Rand interface {
	Float64() float64
}

// SystemRand draws from the process-wide math/rand/v2 generator.
type SystemRand struct{}

func (SystemRand) Float64() float64 { return rand.Float64() }
