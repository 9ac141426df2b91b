// Package dmpf implements the "big state" multi-point Distributed Point
// Function: a single GGM-style tree is shared across all t special inputs,
// with a per-layer correction word carrying a t-bit wide control word
// instead of DPF's single control bit. Evaluation reuses the DPF
// tree-descent skeleton; only the control-word width and the correction
// fold differ.
package dmpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// MaxDomainBits bounds n, for the same reason as dpf.MaxDomainBits.
const MaxDomainBits = 63

// MaxPoints is the largest t this implementation supports: a ControlWord
// is packed into a uint32, so no more than MaxControlBits special points
// can be distinguished per key.
const MaxPoints = primitives.MaxControlBits

// CorrectionWord is the per-(layer, active-node) correction word: a
// 16-byte seed correction plus two t-wide control words, serialized as 24
// bytes.
type CorrectionWord struct {
	S      primitives.Block
	TL, TR primitives.ControlWord
}

// Key is one party's share of a DMPF key.
type Key struct {
	N       int
	T       int
	PartyID byte
	Seed    primitives.Block
	Bits    primitives.ControlWord
	// CW[d] holds layer d+1's correction words, one slot per active node
	// of layer d, padded with zero entries up to width T.
	CW [][]CorrectionWord
	// LastCW[i] is the leaf correction for the i-th special point (sorted
	// order), each B bytes wide.
	LastCW [][]byte
}

// rootBits is the deterministic, non-random root control word: party 0
// always starts at the all-zero word, party 1 at the one-hot word marking
// slot 1. Because it never depends on randomness, it is recomputed rather
// than carried on the wire.
func rootBits(partyID byte, t int) primitives.ControlWord {
	if partyID == 0 {
		return 0
	}
	return primitives.OneHot(t, 1)
}

// buildLayers computes, for each depth d = 0..n, the sorted set of distinct
// prefixes x_i >> (n-d). Because xs is sorted ascending, each layer is
// already produced in sorted order; only adjacent-duplicate collapsing is
// needed.
func buildLayers(n int, xs []uint64) [][]uint64 {
	layers := make([][]uint64, n+1)
	for d := 0; d <= n; d++ {
		shift := uint(n - d)
		layer := make([]uint64, 0, len(xs))
		var last uint64
		for i, x := range xs {
			p := x >> shift
			if i == 0 || p != last {
				layer = append(layer, p)
				last = p
			}
		}
		layers[d] = layer
	}
	return layers
}

func indexOf(layer []uint64) map[uint64]int {
	m := make(map[uint64]int, len(layer))
	for i, p := range layer {
		m[p] = i
	}
	return m
}

// dmpfCorrect folds the active entries of a layer's correction-word array
// according to bits: for c=1..t, if bit c of bits is set, XOR CWs[c-1] in.
// Control words carry random bits, so slots beyond the layer's real node
// count can be selected; those slots hold zero correction words and
// contribute nothing.
func dmpfCorrect(t int, bits primitives.ControlWord, layerCW []CorrectionWord) CorrectionWord {
	var acc CorrectionWord
	for c := 1; c <= t; c++ {
		if primitives.GetBit(bits, t, c) == 1 {
			cw := layerCW[c-1]
			acc.S = acc.S.XOR(cw.S)
			acc.TL ^= cw.TL
			acc.TR ^= cw.TR
		}
	}
	return acc
}

// nodeExpand caches one parent node's PRG expansion and trie-child lookup,
// so the correction-word pass and the next-layer-state pass don't redo it.
type nodeExpand struct {
	sL0, sR0, sL1, sR1 primitives.Block
	tL0, tR0           primitives.ControlWord
	tL1, tR1           primitives.ControlWord
	hasLeft, hasRight  bool
	leftIdx, rightIdx  int
}

// Gen generates the two DMPF keys for a function over a domain of 2^n
// points that evaluates to vs[i] at xs[i] (xs strictly ascending) and to
// the all-zero string elsewhere.
func Gen(ctx *primitives.PRGContext, n int, xs []uint64, vs [][]byte) (k0, k1 *Key, err error) {
	t := len(xs)
	if t == 0 || t > MaxPoints {
		return nil, nil, fmt.Errorf("dmpf: Gen: t=%d: %w", t, fsserr.ErrControlWordTooWide)
	}
	if len(vs) != t {
		return nil, nil, fmt.Errorf("dmpf: Gen: got %d values for %d points", len(vs), t)
	}
	if n <= 0 || n > MaxDomainBits {
		return nil, nil, fmt.Errorf("dmpf: Gen: n=%d: %w", n, fsserr.ErrDomainTooLarge)
	}
	for i, x := range xs {
		if x >= uint64(1)<<uint(n) {
			return nil, nil, fmt.Errorf("dmpf: Gen: xs[%d]=%d out of range for n=%d bits", i, x, n)
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return nil, nil, fmt.Errorf("dmpf: Gen: %w", fsserr.ErrInputsUnsorted)
		}
	}

	layers := buildLayers(n, xs)

	rootSeed0, rootSeed1 := primitives.RandomBlock(), primitives.RandomBlock()
	seeds0 := []primitives.Block{rootSeed0}
	seeds1 := []primitives.Block{rootSeed1}
	bits0 := []primitives.ControlWord{rootBits(0, t)}
	bits1 := []primitives.ControlWord{rootBits(1, t)}

	cw := make([][]CorrectionWord, n)

	for d := 1; d <= n; d++ {
		prevLayer := layers[d-1]
		curLayer := layers[d]
		curPos := indexOf(curLayer)

		nodes := make([]nodeExpand, len(prevLayer))
		layerCW := make([]CorrectionWord, t)

		for j, prefix := range prevLayer {
			sL0, sR0, u00, u01 := ctx.Expand(seeds0[j])
			sL1, sR1, u10, u11 := ctx.Expand(seeds1[j])

			leftIdx, hasLeft := curPos[prefix<<1]
			rightIdx, hasRight := curPos[prefix<<1|1]
			if !hasLeft && !hasRight {
				return nil, nil, fmt.Errorf("dmpf: Gen: %w: prefix %d at depth %d has no surviving child", fsserr.ErrCryptoFailure, prefix, d)
			}

			e := nodeExpand{
				sL0: sL0, sR0: sR0, sL1: sL1, sR1: sR1,
				tL0: primitives.LowBits(u00, t), tR0: primitives.LowBits(u01, t),
				tL1: primitives.LowBits(u10, t), tR1: primitives.LowBits(u11, t),
				hasLeft: hasLeft, hasRight: hasRight, leftIdx: leftIdx, rightIdx: rightIdx,
			}
			nodes[j] = e

			tCWL := e.tL0 ^ e.tL1
			tCWR := e.tR0 ^ e.tR1
			var sCW primitives.Block

			switch {
			case hasLeft && hasRight:
				// Adjacency invariant: children of a sorted-prefix trie node
				// occupy consecutive positions in the next layer, so
				// rightIdx = leftIdx+1 always holds here.
				if rightIdx != leftIdx+1 {
					return nil, nil, fmt.Errorf("dmpf: Gen: %w: rightIdx=%d leftIdx=%d not adjacent", fsserr.ErrCryptoFailure, rightIdx, leftIdx)
				}
				sCW = primitives.RandomBlock()
				tCWL ^= primitives.OneHot(t, leftIdx+1)
				tCWR ^= primitives.OneHot(t, rightIdx+1)
			case hasLeft:
				sCW = sR0.XOR(sR1)
				tCWL ^= primitives.OneHot(t, leftIdx+1)
			case hasRight:
				sCW = sL0.XOR(sL1)
				tCWR ^= primitives.OneHot(t, rightIdx+1)
			}

			layerCW[j] = CorrectionWord{S: sCW, TL: tCWL, TR: tCWR}
		}

		nextSeeds0 := make([]primitives.Block, len(curLayer))
		nextSeeds1 := make([]primitives.Block, len(curLayer))
		nextBits0 := make([]primitives.ControlWord, len(curLayer))
		nextBits1 := make([]primitives.ControlWord, len(curLayer))

		for j, e := range nodes {
			fold0 := dmpfCorrect(t, bits0[j], layerCW)
			fold1 := dmpfCorrect(t, bits1[j], layerCW)

			if e.hasLeft {
				nextSeeds0[e.leftIdx] = e.sL0.XOR(fold0.S)
				nextBits0[e.leftIdx] = e.tL0 ^ fold0.TL
				nextSeeds1[e.leftIdx] = e.sL1.XOR(fold1.S)
				nextBits1[e.leftIdx] = e.tL1 ^ fold1.TL
			}
			if e.hasRight {
				nextSeeds0[e.rightIdx] = e.sR0.XOR(fold0.S)
				nextBits0[e.rightIdx] = e.tR0 ^ fold0.TR
				nextSeeds1[e.rightIdx] = e.sR1.XOR(fold1.S)
				nextBits1[e.rightIdx] = e.tR1 ^ fold1.TR
			}
		}

		cw[d-1] = layerCW
		seeds0, seeds1, bits0, bits1 = nextSeeds0, nextSeeds1, nextBits0, nextBits1
	}

	lastCW := make([][]byte, t)
	for i := range xs {
		b := len(vs[i])
		lastCW[i] = primitives.XORBytes(vs[i], primitives.Expand(seeds0[i], b), primitives.Expand(seeds1[i], b))
	}

	k0 = &Key{N: n, T: t, PartyID: 0, Seed: rootSeed0, Bits: rootBits(0, t), CW: cw, LastCW: lastCW}
	k1 = &Key{N: n, T: t, PartyID: 1, Seed: rootSeed1, Bits: rootBits(1, t), CW: cw, LastCW: lastCW}
	return k0, k1, nil
}

// Descend walks k's tree down to the leaf at x, returning the raw final
// seed and t-wide control word before leaf conversion. The verifiable
// layer needs this pair directly for its proof chain.
func Descend(ctx *primitives.PRGContext, k *Key, x uint64) (primitives.Block, primitives.ControlWord, error) {
	if x >= uint64(1)<<uint(k.N) {
		return primitives.Block{}, 0, fmt.Errorf("dmpf: Descend: x=%d out of range for n=%d bits", x, k.N)
	}
	if len(k.CW) != k.N {
		return primitives.Block{}, 0, fmt.Errorf("dmpf: Descend: %w", fsserr.ErrShortKey)
	}

	s := k.Seed
	bits := k.Bits
	for d := 1; d <= k.N; d++ {
		sL, sR, u0, u1 := ctx.Expand(s)
		tL := primitives.LowBits(u0, k.T)
		tR := primitives.LowBits(u1, k.T)
		fold := dmpfCorrect(k.T, bits, k.CW[d-1])

		if primitives.IndexBit(x, k.N, d) == 0 {
			s = sL.XOR(fold.S)
			bits = tL ^ fold.TL
		} else {
			s = sR.XOR(fold.S)
			bits = tR ^ fold.TR
		}
	}
	return s, bits, nil
}

// Finalize converts a leaf (seed, control word) pair into the party's
// B-byte share, XORing in every lastCW slot whose control bit is set.
func Finalize(s primitives.Block, bits primitives.ControlWord, lastCW [][]byte, t, b int) []byte {
	out := primitives.Expand(s, b)
	for i := 0; i < t; i++ {
		if primitives.GetBit(bits, t, i+1) == 1 {
			out = primitives.XORBytes(out, lastCW[i])
		}
	}
	return out
}

// Eval evaluates key k at x, returning the party's B-byte share of f(x).
func Eval(ctx *primitives.PRGContext, k *Key, x uint64, b int) ([]byte, error) {
	if len(k.LastCW) != k.T {
		return nil, fmt.Errorf("dmpf: Eval: %w", fsserr.ErrShortKey)
	}
	s, bits, err := Descend(ctx, k, x)
	if err != nil {
		return nil, fmt.Errorf("dmpf: Eval: %w", err)
	}
	return Finalize(s, bits, k.LastCW, k.T, b), nil
}

// DescendAll walks k's tree to every leaf of its domain, in ascending
// order, returning the raw (seed, control word) pair at each. It doubles a
// seed/control-word array at each depth, applying the same per-layer fold
// as Descend but against every surviving node instead of a single path.
func DescendAll(ctx *primitives.PRGContext, k *Key) ([]primitives.Block, []primitives.ControlWord, error) {
	if len(k.CW) != k.N {
		return nil, nil, fmt.Errorf("dmpf: DescendAll: %w", fsserr.ErrShortKey)
	}

	seeds := []primitives.Block{k.Seed}
	bits := []primitives.ControlWord{k.Bits}

	for d := 1; d <= k.N; d++ {
		layerCW := k.CW[d-1]
		nextSeeds := make([]primitives.Block, 0, 2*len(seeds))
		nextBits := make([]primitives.ControlWord, 0, 2*len(bits))

		for j := range seeds {
			sL, sR, u0, u1 := ctx.Expand(seeds[j])
			tL := primitives.LowBits(u0, k.T)
			tR := primitives.LowBits(u1, k.T)
			fold := dmpfCorrect(k.T, bits[j], layerCW)

			nextSeeds = append(nextSeeds, sL.XOR(fold.S), sR.XOR(fold.S))
			nextBits = append(nextBits, tL^fold.TL, tR^fold.TR)
		}

		seeds, bits = nextSeeds, nextBits
	}

	return seeds, bits, nil
}

// FullDomain evaluates k at every point of its domain, returning the
// concatenation of each point's B-byte share in ascending order.
func FullDomain(ctx *primitives.PRGContext, k *Key, b int) ([]byte, error) {
	if len(k.LastCW) != k.T {
		return nil, fmt.Errorf("dmpf: FullDomain: %w", fsserr.ErrShortKey)
	}
	seeds, bits, err := DescendAll(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("dmpf: FullDomain: %w", err)
	}

	out := make([]byte, 0, len(seeds)*b)
	for j := range seeds {
		out = append(out, Finalize(seeds[j], bits[j], k.LastCW, k.T, b)...)
	}
	return out, nil
}
