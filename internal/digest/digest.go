// Package digest computes fixed-size structural digests of compressed states so
// that the state index store (internal/stateindex) can use them as map keys
// instead of hashing variable-length []uint64 slices directly on every lookup.
package digest

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

// Key is a 256-bit structural digest of a CompressedState.
type Key [32]byte

// Sum returns the digest of s. Two equal CompressedState values always produce the
// same Key; a Key collision between unequal states is possible in principle, so
// callers must still confirm equality on the stored CompressedState before
// treating two states as identical (the same cross-validation discipline used by
// sparse-set membership tests: a hash/index match is a candidate, not a proof).
func Sum(s oracle.CompressedState) Key {
	buf := make([]byte, 8*len(s))
	for i, word := range s {
		binary.LittleEndian.PutUint64(buf[i*8:], word)
	}
	return blake2b.Sum256(buf)
}
