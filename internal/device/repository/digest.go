// Package repository implements device registration persistence for PostgreSQL, MySQL and memory.
package repository

import (
	"crypto/sha256"
)

// tokenDigest returns the SHA-256 of a push token. Tokens can be longer than a
// btree index entry allows, so uniqueness and lookups go through the digest.
func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
