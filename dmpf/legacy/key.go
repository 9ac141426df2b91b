package legacy

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
)

// Serialize encodes a Key as a count byte followed by each underlying DPF
// key's own fixed-layout serialization, back to back. All DPF keys in a
// bundle share the same n and output width, so no per-key length prefix is
// needed.
func (k *Key) Serialize() []byte {
	if len(k.DPFKeys) == 0 {
		return []byte{0}
	}
	one := k.DPFKeys[0].Serialize()
	out := make([]byte, 1+len(one)*len(k.DPFKeys))
	out[0] = byte(len(k.DPFKeys))
	off := 1
	for _, dk := range k.DPFKeys {
		copy(out[off:], dk.Serialize())
		off += len(one)
	}
	return out
}

// Deserialize parses a bundle of DPF keys, each of output width b.
func Deserialize(data []byte, b int) (*Key, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("dmpf/legacy: Deserialize: %w", fsserr.ErrShortKey)
	}
	t := int(data[0])
	if t == 0 {
		return &Key{}, nil
	}

	rest := data[1:]
	if len(rest)%t != 0 {
		return nil, fmt.Errorf("dmpf/legacy: Deserialize: %w", fsserr.ErrShortKey)
	}
	chunk := len(rest) / t

	keys := make([]*dpf.Key, t)
	for i := 0; i < t; i++ {
		dk, err := dpf.Deserialize(rest[i*chunk:(i+1)*chunk], b)
		if err != nil {
			return nil, fmt.Errorf("dmpf/legacy: Deserialize: point %d: %w", i, err)
		}
		keys[i] = dk
	}
	return &Key{DPFKeys: keys}, nil
}
