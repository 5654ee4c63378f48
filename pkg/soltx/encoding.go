// Package soltx builds instructions and transactions for the Solana-style
// chain's platform-pool program. Instruction data follows the Anchor
// convention: an 8-byte method discriminator followed by Borsh-encoded
// arguments.
package soltx

import (
	"crypto/sha256"
	"encoding/binary"
)

// DiscriminatorSize is the length of an Anchor method discriminator.
const DiscriminatorSize = 8

// Discriminator returns the 8-byte Anchor discriminator for a program
// method: the first 8 bytes of SHA-256("global:" + method).
func Discriminator(method string) [DiscriminatorSize]byte {
	sum := sha256.Sum256([]byte("global:" + method))

	var disc [DiscriminatorSize]byte
	copy(disc[:], sum[:DiscriminatorSize])
	return disc
}

// EncodeU64 encodes v as 8 little-endian bytes.
func EncodeU64(v uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b
}

// EncodeString encodes s as a 4-byte little-endian length prefix followed
// by the UTF-8 bytes.
func EncodeString(s string) []byte {
	out := make([]byte, 4, 4+len(s))
	binary.LittleEndian.PutUint32(out, uint32(len(s)))
	return append(out, s...)
}

// Concat joins byte slices into one freshly allocated buffer.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
