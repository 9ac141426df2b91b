// Package primitives provides the cryptographic black boxes the FSS core is
// built from: a fixed-key length-doubling PRG, a keyed stream expander, a
// Matyas-Meyer-Oseas hash, SHA-256, and the 128-bit block / t-wide
// control-word utilities the tree constructions manipulate at every layer.
package primitives

import "crypto/rand"

// BlockSize is the width of a seed/block in bytes (128 bits).
const BlockSize = 16

// Block is a 128-bit value: a tree seed, or a PRG/MMO input or output block.
type Block [BlockSize]byte

// RandomBlock draws a uniformly random 128-bit block from the system CSPRNG.
func RandomBlock() Block {
	var b Block
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is broken,
		// which this library cannot recover from.
		panic("primitives: system randomness source failed: " + err.Error())
	}
	return b
}

// LSB returns the least significant bit of b, read from the last byte.
func (b Block) LSB() byte {
	return b[BlockSize-1] & 1
}

// SetLSBZero returns a copy of b with its least significant bit cleared.
func (b Block) SetLSBZero() Block {
	out := b
	out[BlockSize-1] &^= 1
	return out
}

// ToggleLSB returns a copy of b with its least significant bit flipped.
func (b Block) ToggleLSB() Block {
	out := b
	out[BlockSize-1] ^= 1
	return out
}

// XOR returns the bitwise XOR of b and other.
func (b Block) XOR(other Block) Block {
	var out Block
	for i := range out {
		out[i] = b[i] ^ other[i]
	}
	return out
}

// BlockFromUint64 encodes x into the low 8 bytes of a block, big-endian,
// zero-padded in the high bytes. Used to build the "input || seed"
// two-block MMO hash input from a domain point.
func BlockFromUint64(x uint64) Block {
	var b Block
	for i := 0; i < 8; i++ {
		b[BlockSize-1-i] = byte(x >> uint(8*i))
	}
	return b
}

// XORBytes XORs equal-length byte slices in place semantics, returning a new
// slice. Panics if the slices differ in length or the input is empty -
// callers always operate on same-sized buffers (leaf conversions of width B,
// proof accumulators of 4*BlockSize).
func XORBytes(slices ...[]byte) []byte {
	n := len(slices[0])
	out := make([]byte, n)
	for _, s := range slices {
		if len(s) != n {
			panic("primitives: XORBytes operands must share length")
		}
		for i := 0; i < n; i++ {
			out[i] ^= s[i]
		}
	}
	return out
}
