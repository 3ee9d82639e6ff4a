package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
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

// Short returns the leading 12 hex characters
func (h Hash) Short() string {
	if len(h) > 12 {
		return string(h[:12])
	}
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

// ComputePartitionHash hashes a train/test index assignment. Order matters:
// the same indices in a different order produce a different hash.
func ComputePartitionHash(train, test []int, seed int64) Hash {
	var data strings.Builder
	data.WriteString("seed:")
	data.WriteString(strconv.FormatInt(seed, 10))
	data.WriteString("|train:")
	for _, i := range train {
		data.WriteString(strconv.Itoa(i))
		data.WriteByte(',')
	}
	data.WriteString("|test:")
	for _, i := range test {
		data.WriteString(strconv.Itoa(i))
		data.WriteByte(',')
	}
	return NewHash([]byte(data.String()))
}
