package primitives

import "crypto/sha256"

// Digest256 computes SHA-256 over data, producing the 32-byte proof the
// verifiable variants compare between evaluators.
func Digest256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
