package ports

import (
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// Stream creates a deterministic random source for a named operation.
	// The same (name, seed) pair always yields an identical stream, which is
	// what makes generation and resampling runs reproducible byte-for-byte.
	Stream(name string, seed int64) rand.Source
}
