// Package hash wraps xxHash64 for schema fingerprints and stored blob
// checksums.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// New returns a streaming xxHash64 digest.
func New() *xxhash.Digest {
	return xxhash.New()
}
