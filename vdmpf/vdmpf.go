// Package vdmpf layers verifiability onto dmpf, generalizing vdpf's
// single-point proof chain to t independent per-point accumulators folded
// from the same per-evaluation MMO digest.
package vdmpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dmpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// DefaultMaxRetries bounds the rejection-sampling loop in Gen.
const DefaultMaxRetries = 32

// Key is one party's verifiable DMPF key: a normal DMPF key plus one
// stored correlation block-quadruple per special point.
type Key struct {
	DMPF *dmpf.Key
	Cs   [][4]primitives.Block
}

// Gen runs dmpf.Gen in a rejection-sampling loop until every special
// point's leaf seeds are LSB-distinguishable between the two keys, then
// derives each point's correlation blocks.
func Gen(ctx *primitives.PRGContext, mmo *primitives.MMOContext, n int, xs []uint64, vs [][]byte) (k0, k1 *Key, err error) {
	return GenWithRetries(ctx, mmo, n, xs, vs, DefaultMaxRetries)
}

// GenWithRetries is Gen with an explicit retry budget.
func GenWithRetries(ctx *primitives.PRGContext, mmo *primitives.MMOContext, n int, xs []uint64, vs [][]byte, maxRetries int) (k0, k1 *Key, err error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		d0, d1, err := dmpf.Gen(ctx, n, xs, vs)
		if err != nil {
			return nil, nil, fmt.Errorf("vdmpf: Gen: %w", err)
		}

		ok := true
		seeds0 := make([]primitives.Block, len(xs))
		seeds1 := make([]primitives.Block, len(xs))
		for i, x := range xs {
			s0, _, err := dmpf.Descend(ctx, d0, x)
			if err != nil {
				return nil, nil, fmt.Errorf("vdmpf: Gen: %w", err)
			}
			s1, _, err := dmpf.Descend(ctx, d1, x)
			if err != nil {
				return nil, nil, fmt.Errorf("vdmpf: Gen: %w", err)
			}
			if s0.LSB() == s1.LSB() {
				ok = false
				break
			}
			seeds0[i], seeds1[i] = s0, s1
		}
		if !ok {
			continue
		}

		cs := make([][4]primitives.Block, len(xs))
		for i, x := range xs {
			pi0 := mmo.Hash2to4(primitives.BlockFromUint64(x), seeds0[i])
			pi1 := mmo.Hash2to4(primitives.BlockFromUint64(x), seeds1[i])
			for k := range cs[i] {
				cs[i][k] = pi0[k].XOR(pi1[k])
			}
		}

		return &Key{DMPF: d0, Cs: cs}, &Key{DMPF: d1, Cs: cs}, nil
	}
	return nil, nil, fmt.Errorf("vdmpf: Gen: %w", fsserr.ErrFailedSampling)
}

// Session accumulates a per-point proof across a sequence of evaluations
// on a single key.
type Session struct {
	ctx *primitives.PRGContext
	mmo *primitives.MMOContext
	key *Key
	pi  [][4]primitives.Block
}

// NewSession starts a proof-chaining session over k, seeded from the
// stored correlation blocks.
func NewSession(ctx *primitives.PRGContext, mmo *primitives.MMOContext, k *Key) *Session {
	pi := make([][4]primitives.Block, len(k.Cs))
	copy(pi, k.Cs)
	return &Session{ctx: ctx, mmo: mmo, key: k, pi: pi}
}

// Eval evaluates the session's key at y, returning the party's B-byte
// share and folding y into every point's running proof.
func (s *Session) Eval(y uint64, b int) ([]byte, error) {
	if len(s.key.DMPF.LastCW) != s.key.DMPF.T {
		return nil, fmt.Errorf("vdmpf: Session.Eval: %w", fsserr.ErrShortKey)
	}

	seed, bits, err := dmpf.Descend(s.ctx, s.key.DMPF, y)
	if err != nil {
		return nil, fmt.Errorf("vdmpf: Session.Eval: %w", err)
	}

	bit := seed.LSB()
	tpi := s.mmo.Hash2to4(primitives.BlockFromUint64(y), seed)

	for i := range s.pi {
		var h [4]primitives.Block
		for k := range h {
			corrected := tpi[k]
			if bit == 1 {
				corrected = corrected.XOR(s.key.Cs[i][k])
			}
			h[k] = s.pi[i][k].XOR(corrected)
		}
		cpi := s.mmo.Hash4to4(h)
		for k := range s.pi[i] {
			s.pi[i][k] = s.pi[i][k].XOR(cpi[k])
		}
	}

	return dmpf.Finalize(seed, bits, s.key.DMPF.LastCW, s.key.DMPF.T, b), nil
}

// Proof returns the 32-byte SHA-256 digest of all per-point accumulators,
// concatenated in special-point order, as they stand after the
// evaluations folded in so far.
func (s *Session) Proof() [32]byte {
	buf := make([]byte, 0, len(s.pi)*4*primitives.BlockSize)
	for _, pt := range s.pi {
		for _, blk := range pt {
			buf = append(buf, blk[:]...)
		}
	}
	return primitives.Digest256(buf)
}

// FullDomain evaluates k at every point of its domain in ascending order,
// returning the concatenated output table and the final proof over the
// whole domain.
func FullDomain(ctx *primitives.PRGContext, mmo *primitives.MMOContext, k *Key, n, b int) ([]byte, [32]byte, error) {
	sess := NewSession(ctx, mmo, k)
	out := make([]byte, 0, b*(1<<uint(n)))
	for y := uint64(0); y < uint64(1)<<uint(n); y++ {
		share, err := sess.Eval(y, b)
		if err != nil {
			return nil, [32]byte{}, fmt.Errorf("vdmpf: FullDomain: %w", err)
		}
		out = append(out, share...)
	}
	return out, sess.Proof(), nil
}
