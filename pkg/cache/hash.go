package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
