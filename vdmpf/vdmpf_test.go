package vdmpf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricLiChH/V-DMPF/primitives"
	"github.com/EricLiChH/V-DMPF/vdmpf"
)

// TestFullDomainProofsAgree checks that both evaluators recover matching
// proofs and values when running eval at every point of a 4-point,
// 16-entry domain.
func TestFullDomainProofsAgree(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	n := 4
	xs := []uint64{1, 2, 3, 4}
	vs := [][]byte{
		[]byte("aaaaaaaaaaaaaaaa"),
		[]byte("bbbbbbbbbbbbbbbb"),
		[]byte("cccccccccccccccc"),
		[]byte("dddddddddddddddd"),
	}

	k0, k1, err := vdmpf.Gen(ctx, mmo, n, xs, vs)
	require.NoError(t, err)

	table0, proof0, err := vdmpf.FullDomain(ctx, mmo, k0, n, 16)
	require.NoError(t, err)
	table1, proof1, err := vdmpf.FullDomain(ctx, mmo, k1, n, 16)
	require.NoError(t, err)

	assert.Equal(t, proof0, proof1)

	want := map[uint64][]byte{1: vs[0], 2: vs[1], 3: vs[2], 4: vs[3]}
	zero := make([]byte, 16)
	for x := uint64(0); x < 16; x++ {
		got := primitives.XORBytes(table0[x*16:(x+1)*16], table1[x*16:(x+1)*16])
		if v, ok := want[x]; ok {
			assert.Equal(t, v, got)
		} else {
			assert.Equal(t, zero, got)
		}
	}
}

// TestSessionEvalProofsAgree checks that manually driving both parties'
// Sessions over x=1,2,3,4 then x=0 recovers the right values and leaves
// the two parties with matching proofs.
func TestSessionEvalProofsAgree(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	n := 4
	xs := []uint64{1, 2, 3, 4}
	vs := [][]byte{
		[]byte("aaaaaaaaaaaaaaaa"),
		[]byte("bbbbbbbbbbbbbbbb"),
		[]byte("cccccccccccccccc"),
		[]byte("dddddddddddddddd"),
	}

	k0, k1, err := vdmpf.Gen(ctx, mmo, n, xs, vs)
	require.NoError(t, err)

	s0 := vdmpf.NewSession(ctx, mmo, k0)
	s1 := vdmpf.NewSession(ctx, mmo, k1)

	for _, y := range []uint64{1, 2, 3, 4, 0} {
		share0, err := s0.Eval(y, 16)
		require.NoError(t, err)
		share1, err := s1.Eval(y, 16)
		require.NoError(t, err)

		got := primitives.XORBytes(share0, share1)
		if y == 0 {
			assert.Equal(t, make([]byte, 16), got)
		} else {
			assert.Equal(t, vs[y-1], got)
		}
	}

	assert.Equal(t, s0.Proof(), s1.Proof())
}

func TestTamperedKeyBreaksProofAgreement(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	n := 4
	xs := []uint64{1, 2, 3, 4}
	vs := [][]byte{
		[]byte("aaaaaaaaaaaaaaaa"),
		[]byte("bbbbbbbbbbbbbbbb"),
		[]byte("cccccccccccccccc"),
		[]byte("dddddddddddddddd"),
	}

	k0, k1, err := vdmpf.Gen(ctx, mmo, n, xs, vs)
	require.NoError(t, err)

	_, proof0, err := vdmpf.FullDomain(ctx, mmo, k0, n, 16)
	require.NoError(t, err)

	tampered := *k1
	tamperedDMPF := *k1.DMPF
	tamperedDMPF.LastCW = append([][]byte(nil), k1.DMPF.LastCW...)
	tamperedDMPF.LastCW[0] = append([]byte(nil), k1.DMPF.LastCW[0]...)
	tamperedDMPF.LastCW[0][0] ^= 0xFF
	tampered.DMPF = &tamperedDMPF

	_, proof1, err := vdmpf.FullDomain(ctx, mmo, &tampered, n, 16)
	require.NoError(t, err)

	assert.NotEqual(t, proof0, proof1)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	mmo := primitives.DefaultMMOContext()
	xs := []uint64{2, 5}
	vs := [][]byte{
		[]byte("1111111111111111"),
		[]byte("2222222222222222"),
	}

	k0, _, err := vdmpf.Gen(ctx, mmo, 4, xs, vs)
	require.NoError(t, err)

	wire := k0.Serialize()
	got, err := vdmpf.Deserialize(wire, 16)
	require.NoError(t, err)

	assert.Equal(t, k0, got)
}
