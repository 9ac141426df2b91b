// Package compress bundles both parties' DMPF keys into a single blob and
// reconstructs the plaintext function table from it in one pass. The
// bundle is meant for a single trusted holder (whoever ran Gen, or a
// dealer): it contains both root seeds, so it carries none of the
// two-key secret-sharing property on its own.
package compress

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dmpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// Compress runs dmpf.Gen for a function over a domain of 2^n points that
// takes value vs[i] at xs[i] and zero elsewhere, and bundles both
// parties' keys into one wire blob:
//
//	[ n(1) | t(1) | root0(16) | root1(16) | layer CWs | leaf CWs ]
//
// The layer and leaf correction words are identical between the two
// parties' keys, so only one copy of each is carried.
func Compress(ctx *primitives.PRGContext, n int, xs []uint64, vs [][]byte) ([]byte, error) {
	k0, k1, err := dmpf.Gen(ctx, n, xs, vs)
	if err != nil {
		return nil, fmt.Errorf("compress: Compress: %w", err)
	}

	dw0 := k0.Serialize()
	dw1 := k1.Serialize()

	// dmpf.Key.Serialize's wire layout is
	// [n|t|seed|reserved|partyid|CWs|lastCW]; root1's seed is the only
	// part of dw1 not already present in dw0, so splice it in rather than
	// re-deriving CW/lastCW offsets here.
	out := make([]byte, 0, len(dw0)+primitives.BlockSize)
	out = append(out, dw0[:2]...)                       // n, t
	out = append(out, dw0[2:2+primitives.BlockSize]...) // root0
	out = append(out, dw1[2:2+primitives.BlockSize]...) // root1
	out = append(out, dw0[2+primitives.BlockSize+2:]...)

	return out, nil
}

// Decompress reconstructs the full plaintext function table from a blob
// produced by Compress, by building both parties' keys from the shared
// n/t/CW/lastCW fields and the two stored roots, walking each tree's
// full domain, and XORing the two resulting tables together.
func Decompress(ctx *primitives.PRGContext, key []byte, b int) ([]byte, error) {
	const headerPrefix = 2 + 2*primitives.BlockSize
	if len(key) < headerPrefix {
		return nil, fmt.Errorf("compress: Decompress: %w", fsserr.ErrShortKey)
	}

	n := int(key[0])
	t := int(key[1])

	var root0, root1 primitives.Block
	copy(root0[:], key[2:2+primitives.BlockSize])
	copy(root1[:], key[2+primitives.BlockSize:2+2*primitives.BlockSize])

	rest := key[headerPrefix:]
	want := dmpf.WireSize(n, t, b) - (2 + primitives.BlockSize + 2)
	if len(rest) != want {
		return nil, fmt.Errorf("compress: Decompress: got %d trailing bytes, want %d: %w", len(rest), want, fsserr.ErrShortKey)
	}

	body0 := make([]byte, 0, dmpf.WireSize(n, t, b))
	body0 = append(body0, byte(n), byte(t))
	body0 = append(body0, root0[:]...)
	body0 = append(body0, 0, 0) // reserved, party id 0
	body0 = append(body0, rest...)

	body1 := make([]byte, 0, dmpf.WireSize(n, t, b))
	body1 = append(body1, byte(n), byte(t))
	body1 = append(body1, root1[:]...)
	body1 = append(body1, 0, 1) // reserved, party id 1
	body1 = append(body1, rest...)

	k0, err := dmpf.Deserialize(body0, b)
	if err != nil {
		return nil, fmt.Errorf("compress: Decompress: %w", err)
	}
	k1, err := dmpf.Deserialize(body1, b)
	if err != nil {
		return nil, fmt.Errorf("compress: Decompress: %w", err)
	}

	table0, err := dmpf.FullDomain(ctx, k0, b)
	if err != nil {
		return nil, fmt.Errorf("compress: Decompress: %w", err)
	}
	table1, err := dmpf.FullDomain(ctx, k1, b)
	if err != nil {
		return nil, fmt.Errorf("compress: Decompress: %w", err)
	}

	return primitives.XORBytes(table0, table1), nil
}
