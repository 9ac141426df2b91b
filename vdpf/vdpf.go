// Package vdpf layers verifiability onto dpf: both evaluators can derive a
// 256-bit proof from a shared sequence of evaluations, equal iff they were
// given honestly generated keys on the same function. Implements the
// proof-chaining construction of de Castro and Polychroniadou.
package vdpf

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// DefaultMaxRetries bounds the rejection-sampling loop in Gen.
const DefaultMaxRetries = 32

// Key is one party's verifiable DPF key: a normal DPF key plus the stored
// correlation blocks cs, used to seed the evaluator's proof chain.
type Key struct {
	DPF *dpf.Key
	Cs  [4]primitives.Block
}

// Gen runs dpf.Gen in a rejection-sampling loop until the two leaf seeds
// at idx are LSB-distinguishable (lsb(s0) != lsb(s1)), then derives the
// shared correlation blocks cs = MMO1(idx||s0) XOR MMO1(idx||s1).
func Gen(ctx *primitives.PRGContext, mmo *primitives.MMOContext, n int, idx uint64, v []byte) (k0, k1 *Key, err error) {
	return GenWithRetries(ctx, mmo, n, idx, v, DefaultMaxRetries)
}

// GenWithRetries is Gen with an explicit retry budget.
func GenWithRetries(ctx *primitives.PRGContext, mmo *primitives.MMOContext, n int, idx uint64, v []byte, maxRetries int) (k0, k1 *Key, err error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		d0, d1, err := dpf.Gen(ctx, n, idx, v)
		if err != nil {
			return nil, nil, fmt.Errorf("vdpf: Gen: %w", err)
		}

		s0, _, err := dpf.Descend(ctx, d0, idx)
		if err != nil {
			return nil, nil, fmt.Errorf("vdpf: Gen: %w", err)
		}
		s1, _, err := dpf.Descend(ctx, d1, idx)
		if err != nil {
			return nil, nil, fmt.Errorf("vdpf: Gen: %w", err)
		}

		if s0.LSB() == s1.LSB() {
			continue
		}

		pi0 := mmo.Hash2to4(primitives.BlockFromUint64(idx), s0)
		pi1 := mmo.Hash2to4(primitives.BlockFromUint64(idx), s1)
		var cs [4]primitives.Block
		for i := range cs {
			cs[i] = pi0[i].XOR(pi1[i])
		}

		return &Key{DPF: d0, Cs: cs}, &Key{DPF: d1, Cs: cs}, nil
	}
	return nil, nil, fmt.Errorf("vdpf: Gen: %w", fsserr.ErrFailedSampling)
}

// Session accumulates a proof across a sequence of evaluations on a single
// key: each Eval call both returns that point's B-byte share and folds
// the point into the running proof accumulator.
type Session struct {
	ctx *primitives.PRGContext
	mmo *primitives.MMOContext
	key *Key
	pi  [4]primitives.Block
}

// NewSession starts a proof-chaining session over k, seeded from the
// stored correlation blocks.
func NewSession(ctx *primitives.PRGContext, mmo *primitives.MMOContext, k *Key) *Session {
	return &Session{ctx: ctx, mmo: mmo, key: k, pi: k.Cs}
}

// Eval evaluates the session's key at y, returning the party's B-byte
// share and folding y into the running proof.
func (s *Session) Eval(y uint64, b int) ([]byte, error) {
	if len(s.key.DPF.LastCW) != b {
		return nil, fmt.Errorf("vdpf: Session.Eval: %w", fsserr.ErrShortKey)
	}

	seed, t, err := dpf.Descend(s.ctx, s.key.DPF, y)
	if err != nil {
		return nil, fmt.Errorf("vdpf: Session.Eval: %w", err)
	}

	bit := seed.LSB()
	tpi := s.mmo.Hash2to4(primitives.BlockFromUint64(y), seed)

	var h [4]primitives.Block
	for i := range h {
		corrected := tpi[i]
		if bit == 1 {
			corrected = corrected.XOR(s.key.Cs[i])
		}
		h[i] = s.pi[i].XOR(corrected)
	}
	cpi := s.mmo.Hash4to4(h)
	for i := range s.pi {
		s.pi[i] = s.pi[i].XOR(cpi[i])
	}

	return dpf.Finalize(seed, t, s.key.DPF.LastCW, b), nil
}

// Proof returns the 32-byte SHA-256 digest of the accumulator as it stands
// after the evaluations folded in so far.
func (s *Session) Proof() [32]byte {
	buf := make([]byte, 0, 4*primitives.BlockSize)
	for _, blk := range s.pi {
		buf = append(buf, blk[:]...)
	}
	return primitives.Digest256(buf)
}

// FullDomain evaluates k at every point of its domain in ascending order,
// returning the concatenated output table and the final proof over the
// whole domain. Full-domain evaluation uses the loop index as the MMO
// input rather than any stored value - here that loop index and the
// input y coincide, since the loop visits every y in ascending order
// starting at 0.
func FullDomain(ctx *primitives.PRGContext, mmo *primitives.MMOContext, k *Key, n, b int) ([]byte, [32]byte, error) {
	sess := NewSession(ctx, mmo, k)
	out := make([]byte, 0, b*(1<<uint(n)))
	for y := uint64(0); y < uint64(1)<<uint(n); y++ {
		share, err := sess.Eval(y, b)
		if err != nil {
			return nil, [32]byte{}, fmt.Errorf("vdpf: FullDomain: %w", err)
		}
		out = append(out, share...)
	}
	return out, sess.Proof(), nil
}
