// Package dpf implements the tree-based Distributed Point Function of
// Boyle, Gilboa, and Ishai, "Function Secret Sharing: Improvements and
// Extensions" (CCS'16). Two keys are generated for a function that is zero
// everywhere except at a single special point idx, where it evaluates to a
// B-byte value v; either key alone is indistinguishable from random, and
// the XOR of both parties' evaluations reconstructs f(x) at any input.
package dpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// MaxDomainBits bounds n: the index type is a uint64, so a point function
// domain wider than that cannot be addressed without a bignum index type,
// which this implementation does not support.
const MaxDomainBits = 63

// CorrectionWord is the per-layer correction word (sCW, tCW_L, tCW_R),
// serialized as 18 bytes (16-byte seed + 2 control bits).
type CorrectionWord struct {
	S      primitives.Block
	TL, TR byte
}

// Key is one party's share of a DPF key: the initial seed and control bit,
// the per-layer correction words (shared verbatim between both parties),
// and the leaf correction block. Both Key0 and Key1 returned by Gen carry
// an identical CW table and LastCW; they differ only in Seed and T.
type Key struct {
	N      int
	Seed   primitives.Block
	T      byte
	CW     []CorrectionWord
	LastCW []byte
}

// Gen generates the two DPF keys for a point function of domain 2^n that
// evaluates to v at idx and to the all-zero string everywhere else.
func Gen(ctx *primitives.PRGContext, n int, idx uint64, v []byte) (k0, k1 *Key, err error) {
	if n <= 0 || n > MaxDomainBits {
		return nil, nil, fmt.Errorf("dpf: Gen: n=%d: %w", n, fsserr.ErrDomainTooLarge)
	}
	if idx >= uint64(1)<<uint(n) {
		return nil, nil, fmt.Errorf("dpf: Gen: idx=%d out of range for n=%d bits", idx, n)
	}

	seed0 := make([]primitives.Block, n+1)
	seed1 := make([]primitives.Block, n+1)
	bit0 := make([]byte, n+1)
	bit1 := make([]byte, n+1)

	seed0[0] = primitives.RandomBlock()
	seed1[0] = primitives.RandomBlock()
	bit0[0] = 0
	bit1[0] = 1

	cw := make([]CorrectionWord, n)

	for i := 1; i <= n; i++ {
		sL0, sR0, u0L, u0R := ctx.Expand(seed0[i-1])
		sL1, sR1, u1L, u1R := ctx.Expand(seed1[i-1])

		tL0, tR0 := dpfBits(u0L, u0R)
		tL1, tR1 := dpfBits(u1L, u1R)

		k := byte(primitives.IndexBit(idx, n, i))

		var sKeep0, sLose0, sKeep1, sLose1 primitives.Block
		var tKeep0, tKeep1 byte
		if k == 0 {
			sKeep0, sLose0 = sL0, sR0
			sKeep1, sLose1 = sL1, sR1
			tKeep0, tKeep1 = tL0, tL1
		} else {
			sKeep0, sLose0 = sR0, sL0
			sKeep1, sLose1 = sR1, sL1
			tKeep0, tKeep1 = tR0, tR1
		}

		sCW := sLose0.XOR(sLose1)
		tCWL := tL0 ^ tL1 ^ k ^ 1
		tCWR := tR0 ^ tR1 ^ k
		cw[i-1] = CorrectionWord{S: sCW, TL: tCWL, TR: tCWR}

		tCWKeep := tCWL
		if k == 1 {
			tCWKeep = tCWR
		}

		if bit0[i-1] == 1 {
			seed0[i] = sKeep0.XOR(sCW)
			bit0[i] = tKeep0 ^ tCWKeep
		} else {
			seed0[i] = sKeep0
			bit0[i] = tKeep0
		}

		if bit1[i-1] == 1 {
			seed1[i] = sKeep1.XOR(sCW)
			bit1[i] = tKeep1 ^ tCWKeep
		} else {
			seed1[i] = sKeep1
			bit1[i] = tKeep1
		}
	}

	b := len(v)
	lastCW := primitives.XORBytes(v, primitives.Expand(seed0[n], b), primitives.Expand(seed1[n], b))

	k0 = &Key{N: n, Seed: seed0[0], T: bit0[0], CW: cw, LastCW: lastCW}
	k1 = &Key{N: n, Seed: seed1[0], T: bit1[0], CW: cw, LastCW: lastCW}
	return k0, k1, nil
}

// dpfBits extracts the single control bit carried on each side of a DPF
// PRG expansion: tL = lsb(u0), tR = lsb(toggle_lsb(u1)).
func dpfBits(u0, u1 primitives.Block) (tL, tR byte) {
	return u0.LSB(), u1.ToggleLSB().LSB()
}

// Descend walks k's tree down to the leaf at x, returning the raw final
// seed and control bit before leaf conversion. The verifiable layer needs
// this pair directly (for its proof chain and LSB rejection test); Eval
// builds on it too, while FullDomain uses DescendAll.
func Descend(ctx *primitives.PRGContext, k *Key, x uint64) (primitives.Block, byte, error) {
	if x >= uint64(1)<<uint(k.N) {
		return primitives.Block{}, 0, fmt.Errorf("dpf: Descend: x=%d out of range for n=%d bits", x, k.N)
	}
	if len(k.CW) != k.N {
		return primitives.Block{}, 0, fmt.Errorf("dpf: Descend: %w", fsserr.ErrShortKey)
	}

	s := k.Seed
	t := k.T
	for i := 1; i <= k.N; i++ {
		sL, sR, u0, u1 := ctx.Expand(s)
		tL, tR := dpfBits(u0, u1)
		c := k.CW[i-1]

		if t == 1 {
			sL = sL.XOR(c.S)
			sR = sR.XOR(c.S)
			tL ^= c.TL
			tR ^= c.TR
		}

		if primitives.IndexBit(x, k.N, i) == 0 {
			s, t = sL, tL
		} else {
			s, t = sR, tR
		}
	}
	return s, t, nil
}

// Finalize converts a leaf (seed, control bit) pair into the party's
// B-byte share, applying the leaf correction word when the control bit
// requires it.
func Finalize(s primitives.Block, t byte, lastCW []byte, b int) []byte {
	out := primitives.Expand(s, b)
	if t == 1 {
		out = primitives.XORBytes(out, lastCW)
	}
	return out
}

// Eval evaluates key k at x, returning the party's B-byte share of f(x).
func Eval(ctx *primitives.PRGContext, k *Key, x uint64, b int) ([]byte, error) {
	if len(k.LastCW) != b {
		return nil, fmt.Errorf("dpf: Eval: %w", fsserr.ErrShortKey)
	}
	s, t, err := Descend(ctx, k, x)
	if err != nil {
		return nil, fmt.Errorf("dpf: Eval: %w", err)
	}
	return Finalize(s, t, k.LastCW, b), nil
}

// DescendAll walks k's tree to every leaf of its domain, in ascending
// order, returning the raw (seed, control bit) pair at each. It doubles a
// seed/control-bit array at each depth rather than repeating n*2^n
// independent descents.
func DescendAll(ctx *primitives.PRGContext, k *Key) ([]primitives.Block, []byte, error) {
	if len(k.CW) != k.N {
		return nil, nil, fmt.Errorf("dpf: DescendAll: %w", fsserr.ErrShortKey)
	}

	seeds := []primitives.Block{k.Seed}
	bits := []byte{k.T}

	for i := 1; i <= k.N; i++ {
		c := k.CW[i-1]
		nextSeeds := make([]primitives.Block, 0, 2*len(seeds))
		nextBits := make([]byte, 0, 2*len(bits))

		for j := range seeds {
			sL, sR, u0, u1 := ctx.Expand(seeds[j])
			tL, tR := dpfBits(u0, u1)

			if bits[j] == 1 {
				sL = sL.XOR(c.S)
				sR = sR.XOR(c.S)
				tL ^= c.TL
				tR ^= c.TR
			}

			nextSeeds = append(nextSeeds, sL, sR)
			nextBits = append(nextBits, tL, tR)
		}

		seeds, bits = nextSeeds, nextBits
	}

	return seeds, bits, nil
}

// FullDomain evaluates k at every point of its domain, returning the
// concatenation of each point's B-byte share in ascending order - i.e.
// concat(Eval(k,0),...,Eval(k,2^n-1)).
func FullDomain(ctx *primitives.PRGContext, k *Key, b int) ([]byte, error) {
	if len(k.LastCW) != b {
		return nil, fmt.Errorf("dpf: FullDomain: %w", fsserr.ErrShortKey)
	}
	seeds, bits, err := DescendAll(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("dpf: FullDomain: %w", err)
	}

	out := make([]byte, 0, len(seeds)*b)
	for j := range seeds {
		out = append(out, Finalize(seeds[j], bits[j], k.LastCW, b)...)
	}
	return out, nil
}
