package dmpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// cwEntrySize is the serialized size of one CorrectionWord: a 16-byte seed
// plus two 4-byte wide control words.
const cwEntrySize = primitives.BlockSize + 4 + 4

// headerSize is n(1) + t(1) + root seed(16) + reserved(1) + party id(1).
const headerSize = 1 + 1 + primitives.BlockSize + 1 + 1

// Serialize encodes k to its fixed wire layout:
//
//	[ n(1) | t(1) | seed(16) | reserved(1) | party id(1) |
//	  (sCW:16,tCW_L:4,tCW_R:4)*(n*t) | lastCW_i:B *t ]
//
// The root control word is not stored: it is the deterministic value
// rootBits(PartyID, T), recomputed on load.
func (k *Key) Serialize() []byte {
	b := 0
	if len(k.LastCW) > 0 {
		b = len(k.LastCW[0])
	}

	size := headerSize + cwEntrySize*k.N*k.T + b*k.T
	out := make([]byte, size)

	out[0] = byte(k.N)
	out[1] = byte(k.T)
	copy(out[2:2+primitives.BlockSize], k.Seed[:])
	out[2+primitives.BlockSize] = 0 // reserved
	out[3+primitives.BlockSize] = k.PartyID

	off := headerSize
	for d := 0; d < k.N; d++ {
		for slot := 0; slot < k.T; slot++ {
			var c CorrectionWord
			if slot < len(k.CW[d]) {
				c = k.CW[d][slot]
			}
			copy(out[off:off+primitives.BlockSize], c.S[:])
			primitives.PutControlWord(out[off+primitives.BlockSize:], c.TL)
			primitives.PutControlWord(out[off+primitives.BlockSize+4:], c.TR)
			off += cwEntrySize
		}
	}

	for i := 0; i < k.T; i++ {
		copy(out[off:off+b], k.LastCW[i])
		off += b
	}

	return out
}

// WireSize returns the exact serialized length of a key with the given
// n, t, and output width b, letting callers that embed a DMPF key inside
// a larger wire format (such as vdmpf) find where it ends.
func WireSize(n, t, b int) int {
	return headerSize + cwEntrySize*n*t + b*t
}

// Deserialize parses a key previously produced by Serialize. b is the
// caller-known output width of the multi-point function.
func Deserialize(data []byte, b int) (*Key, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("dmpf: Deserialize: %w", fsserr.ErrShortKey)
	}

	n := int(data[0])
	t := int(data[1])
	want := headerSize + cwEntrySize*n*t + b*t
	if len(data) != want {
		return nil, fmt.Errorf("dmpf: Deserialize: got %d bytes, want %d: %w", len(data), want, fsserr.ErrShortKey)
	}

	k := &Key{N: n, T: t, PartyID: data[3+primitives.BlockSize]}
	copy(k.Seed[:], data[2:2+primitives.BlockSize])
	k.Bits = rootBits(k.PartyID, t)

	off := headerSize
	k.CW = make([][]CorrectionWord, n)
	for d := 0; d < n; d++ {
		layer := make([]CorrectionWord, t)
		for slot := 0; slot < t; slot++ {
			var c CorrectionWord
			copy(c.S[:], data[off:off+primitives.BlockSize])
			c.TL = primitives.GetControlWord(data[off+primitives.BlockSize:])
			c.TR = primitives.GetControlWord(data[off+primitives.BlockSize+4:])
			layer[slot] = c
			off += cwEntrySize
		}
		k.CW[d] = layer
	}

	k.LastCW = make([][]byte, t)
	for i := 0; i < t; i++ {
		k.LastCW[i] = make([]byte, b)
		copy(k.LastCW[i], data[off:off+b])
		off += b
	}

	return k, nil
}
