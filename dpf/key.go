package dpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// cwSize is the serialized size of one CorrectionWord: a 16-byte seed plus
// the two single-byte control words, matching CWSIZE in the reference C
// sources (include/dpf.h).
const cwSize = primitives.BlockSize + 2

// headerSize is the root header: n (1 byte), the root seed (16 bytes), and
// the root control bit (1 byte) - also exactly cwSize bytes, which is why
// the reference C layout indexes correction words starting at CWSIZE*i
// rather than CWSIZE*i+CWSIZE.
const headerSize = cwSize

// Serialize encodes k to its fixed wire layout:
//
//	[ n(1) | seed(16) | t(1) | (sCW(16),tCW_L(1),tCW_R(1))*n | lastCW(B) ]
func (k *Key) Serialize() []byte {
	size := headerSize + cwSize*k.N + len(k.LastCW)
	out := make([]byte, size)

	out[0] = byte(k.N)
	copy(out[1:1+primitives.BlockSize], k.Seed[:])
	out[1+primitives.BlockSize] = k.T

	off := headerSize
	for _, c := range k.CW {
		copy(out[off:off+primitives.BlockSize], c.S[:])
		out[off+primitives.BlockSize] = c.TL
		out[off+primitives.BlockSize+1] = c.TR
		off += cwSize
	}

	copy(out[off:], k.LastCW)
	return out
}

// Deserialize parses a key previously produced by Serialize. b is the
// caller-known output width of the point function; it cannot be recovered
// from the wire format alone, since the trailing lastCW field has no
// length prefix of its own.
func Deserialize(data []byte, b int) (*Key, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("dpf: Deserialize: %w", fsserr.ErrShortKey)
	}

	n := int(data[0])
	want := headerSize + cwSize*n + b
	if len(data) != want {
		return nil, fmt.Errorf("dpf: Deserialize: got %d bytes, want %d: %w", len(data), want, fsserr.ErrShortKey)
	}

	k := &Key{N: n, T: data[1+primitives.BlockSize]}
	copy(k.Seed[:], data[1:1+primitives.BlockSize])

	k.CW = make([]CorrectionWord, n)
	off := headerSize
	for i := 0; i < n; i++ {
		var c CorrectionWord
		copy(c.S[:], data[off:off+primitives.BlockSize])
		c.TL = data[off+primitives.BlockSize]
		c.TR = data[off+primitives.BlockSize+1]
		k.CW[i] = c
		off += cwSize
	}

	k.LastCW = make([]byte, b)
	copy(k.LastCW, data[off:])
	return k, nil
}
