package vdpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// csSize is the serialized width of the stored correlation blocks: 4
// blocks of 16 bytes each.
const csSize = 4 * primitives.BlockSize

// Serialize encodes k as its underlying DPF key's wire form, followed by
// the 4 correlation blocks.
func (k *Key) Serialize() []byte {
	dpfWire := k.DPF.Serialize()
	out := make([]byte, len(dpfWire)+csSize)
	copy(out, dpfWire)
	off := len(dpfWire)
	for _, blk := range k.Cs {
		copy(out[off:], blk[:])
		off += primitives.BlockSize
	}
	return out
}

// Deserialize parses a key previously produced by Serialize. b is the
// caller-known output width of the point function.
func Deserialize(data []byte, b int) (*Key, error) {
	if len(data) < csSize {
		return nil, fmt.Errorf("vdpf: Deserialize: %w", fsserr.ErrShortKey)
	}
	dpfWireLen := len(data) - csSize

	dk, err := dpf.Deserialize(data[:dpfWireLen], b)
	if err != nil {
		return nil, fmt.Errorf("vdpf: Deserialize: %w", err)
	}

	var cs [4]primitives.Block
	off := dpfWireLen
	for i := range cs {
		copy(cs[i][:], data[off:off+primitives.BlockSize])
		off += primitives.BlockSize
	}

	return &Key{DPF: dk, Cs: cs}, nil
}
