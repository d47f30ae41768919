package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeRunFingerprint hashes the canonical encoding of a run's inputs so that
// two runs with identical parameters and seed produce the same fingerprint.
// Fields are written in a fixed order; callers must not reorder them between
// releases without bumping the leading version tag.
func ComputeRunFingerprint(version string, fields ...interface{}) Hash {
	var data strings.Builder
	data.WriteString(version)
	for _, f := range fields {
		data.WriteString("|")
		data.WriteString(fmt.Sprintf("%v", f))
	}
	return NewHash([]byte(data.String()))
}
