// Package legacy implements the non-normative bundle-of-independent-DPFs
// multi-point construction: one full DPF tree per special point, summed at
// evaluation time. It is kept alongside the big-state dmpf package as a
// documented fallback (see the package's parent for the normative
// construction); nothing in dmpf, vdmpf, or compress calls into it.
package legacy

import (
	"fmt"

	"github.com/EricLiChH/V-DMPF/dpf"
	"github.com/EricLiChH/V-DMPF/fsserr"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// Key is a bundle of independent DPF keys, one per special point.
type Key struct {
	DPFKeys []*dpf.Key
}

// Gen builds a bundle key pair: one DPF instance per (x_i, v_i) pair, each
// tree generated independently of the others.
func Gen(ctx *primitives.PRGContext, n int, xs []uint64, vs [][]byte) (k0, k1 *Key, err error) {
	if len(vs) != len(xs) {
		return nil, nil, fmt.Errorf("dmpf/legacy: Gen: got %d values for %d points", len(vs), len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, nil, fmt.Errorf("dmpf/legacy: Gen: %w", fsserr.ErrInputsUnsorted)
		}
	}

	k0 = &Key{DPFKeys: make([]*dpf.Key, len(xs))}
	k1 = &Key{DPFKeys: make([]*dpf.Key, len(xs))}
	for i := range xs {
		a, b, err := dpf.Gen(ctx, n, xs[i], vs[i])
		if err != nil {
			return nil, nil, fmt.Errorf("dmpf/legacy: Gen: point %d: %w", i, err)
		}
		k0.DPFKeys[i] = a
		k1.DPFKeys[i] = b
	}
	return k0, k1, nil
}

// Eval evaluates every underlying DPF at x and XORs the shares together: a
// bundle of point functions with disjoint special points sums to the
// multi-point function at any input.
func Eval(ctx *primitives.PRGContext, k *Key, x uint64, b int) ([]byte, error) {
	out := make([]byte, b)
	for i, dk := range k.DPFKeys {
		r, err := dpf.Eval(ctx, dk, x, b)
		if err != nil {
			return nil, fmt.Errorf("dmpf/legacy: Eval: point %d: %w", i, err)
		}
		out = primitives.XORBytes(out, r)
	}
	return out, nil
}

// FullDomain sums each underlying DPF's full-domain table.
func FullDomain(ctx *primitives.PRGContext, k *Key, b int) ([]byte, error) {
	var out []byte
	for i, dk := range k.DPFKeys {
		full, err := dpf.FullDomain(ctx, dk, b)
		if err != nil {
			return nil, fmt.Errorf("dmpf/legacy: FullDomain: point %d: %w", i, err)
		}
		if out == nil {
			out = full
		} else {
			out = primitives.XORBytes(out, full)
		}
	}
	return out, nil
}
