package vdmpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dmpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// csEntrySize is the serialized width of one special point's stored
// correlation blocks: 4 blocks of 16 bytes each.
const csEntrySize = 4 * primitives.BlockSize

// Serialize encodes k as its underlying DMPF key's wire form, followed by
// one csEntrySize chunk per special point, in the same sorted order as
// the DMPF key's own special points.
func (k *Key) Serialize() []byte {
	dmpfWire := k.DMPF.Serialize()
	out := make([]byte, len(dmpfWire)+len(k.Cs)*csEntrySize)
	copy(out, dmpfWire)
	off := len(dmpfWire)
	for _, pt := range k.Cs {
		for _, blk := range pt {
			copy(out[off:], blk[:])
			off += primitives.BlockSize
		}
	}
	return out
}

// Deserialize parses a key previously produced by Serialize. b is the
// caller-known output width of the point function.
func Deserialize(data []byte, b int) (*Key, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("vdmpf: Deserialize: %w", fsserr.ErrShortKey)
	}
	n, t := int(data[0]), int(data[1])
	dmpfWireLen := dmpf.WireSize(n, t, b)
	if len(data) < dmpfWireLen {
		return nil, fmt.Errorf("vdmpf: Deserialize: %w", fsserr.ErrShortKey)
	}

	dk, err := dmpf.Deserialize(data[:dmpfWireLen], b)
	if err != nil {
		return nil, fmt.Errorf("vdmpf: Deserialize: %w", err)
	}

	rest := data[dmpfWireLen:]
	if len(rest)%csEntrySize != 0 {
		return nil, fmt.Errorf("vdmpf: Deserialize: %w", fsserr.ErrShortKey)
	}
	csCount := len(rest) / csEntrySize
	if csCount != dk.T {
		return nil, fmt.Errorf("vdmpf: Deserialize: cs count %d does not match key's t=%d", csCount, dk.T)
	}

	cs := make([][4]primitives.Block, csCount)
	off := 0
	for i := range cs {
		for k := range cs[i] {
			copy(cs[i][k][:], rest[off:off+primitives.BlockSize])
			off += primitives.BlockSize
		}
	}

	return &Key{DMPF: dk, Cs: cs}, nil
}
