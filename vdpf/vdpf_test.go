package vdpf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricLiChH/V-DMPF/primitives"
	"github.com/EricLiChH/V-DMPF/vdpf"
)

// TestFullDomainProofsAgree checks that both evaluators recover matching
// proofs when running full-domain evaluation.
func TestFullDomainProofsAgree(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	n := 4
	idx := uint64(1)
	v := []byte("0123456789abcdef")

	k0, k1, err := vdpf.Gen(ctx, mmo, n, idx, v)
	require.NoError(t, err)

	table0, proof0, err := vdpf.FullDomain(ctx, mmo, k0, n, len(v))
	require.NoError(t, err)
	table1, proof1, err := vdpf.FullDomain(ctx, mmo, k1, n, len(v))
	require.NoError(t, err)

	assert.Equal(t, proof0, proof1)

	zero := make([]byte, len(v))
	for x := uint64(0); x < 16; x++ {
		got := primitives.XORBytes(table0[x*uint64(len(v)):(x+1)*uint64(len(v))], table1[x*uint64(len(v)):(x+1)*uint64(len(v))])
		if x == idx {
			assert.Equal(t, v, got)
		} else {
			assert.Equal(t, zero, got)
		}
	}
}

// TestTamperedKeyBreaksProofAgreement flips a byte of k1 outside its root
// seed and checks the proofs diverge.
func TestTamperedKeyBreaksProofAgreement(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	n := 4
	idx := uint64(1)
	v := []byte("0123456789abcdef")

	k0, k1, err := vdpf.Gen(ctx, mmo, n, idx, v)
	require.NoError(t, err)

	_, proof0, err := vdpf.FullDomain(ctx, mmo, k0, n, len(v))
	require.NoError(t, err)

	tampered := *k1
	tamperedDPF := *k1.DPF
	tamperedDPF.LastCW = append([]byte(nil), k1.DPF.LastCW...)
	tamperedDPF.LastCW[0] ^= 0xFF
	tampered.DPF = &tamperedDPF

	_, proof1, err := vdpf.FullDomain(ctx, mmo, &tampered, n, len(v))
	require.NoError(t, err)

	assert.NotEqual(t, proof0, proof1)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	v := []byte("0123456789abcdef")

	k0, _, err := vdpf.Gen(ctx, mmo, 4, 9, v)
	require.NoError(t, err)

	wire := k0.Serialize()
	got, err := vdpf.Deserialize(wire, len(v))
	require.NoError(t, err)

	assert.Equal(t, k0, got)
}
