package primitives

import (
	"crypto/aes"
	"crypto/cipher"
)

// Expand is the block-cipher-stream expansion to B bytes: it sets up
// AES-128 CTR keyed by seed, zero IV, and encrypts n zero bytes. Used to
// derive leaf-to-value conversion blocks during Gen and Eval.
func Expand(seed Block, n int) []byte {
	block, err := aes.NewCipher(seed[:])
	if err != nil {
		// seed is always exactly 16 bytes, a valid AES-128 key.
		panic("primitives: leaf seed is not a valid AES-128 key: " + err.Error())
	}

	iv := make([]byte, aes.BlockSize)
	stream := cipher.NewCTR(block, iv)

	out := make([]byte, n)
	stream.XORKeyStream(out, out)
	return out
}
