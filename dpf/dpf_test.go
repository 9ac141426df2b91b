package dpf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricLiChH/V-DMPF/dpf"
	"github.com/EricLiChH/V-DMPF/primitives"
)

func xorBytes(a, b []byte) []byte {
	return primitives.XORBytes(a, b)
}

// TestGenAndEvalReconstructsPoint covers a single evaluated point: n=4,
// B=16, idx=1.
func TestGenAndEvalReconstructsPoint(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 4
	idx := uint64(1)
	v := []byte("0123456789abcdef")

	k0, k1, err := dpf.Gen(ctx, n, idx, v)
	require.NoError(t, err)

	r0, err := dpf.Eval(ctx, k0, idx, len(v))
	require.NoError(t, err)
	r1, err := dpf.Eval(ctx, k1, idx, len(v))
	require.NoError(t, err)

	assert.Equal(t, v, xorBytes(r0, r1))
}

// TestEvalIsZeroOffPoint checks every non-special point of a small domain
// reconstructs to the all-zero string.
func TestEvalIsZeroOffPoint(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 5
	idx := uint64(13)
	v := []byte{0xAA, 0xBB, 0xCC, 0xDD}

	k0, k1, err := dpf.Gen(ctx, n, idx, v)
	require.NoError(t, err)

	zero := make([]byte, len(v))
	for x := uint64(0); x < uint64(1)<<uint(n); x++ {
		r0, err := dpf.Eval(ctx, k0, x, len(v))
		require.NoError(t, err)
		r1, err := dpf.Eval(ctx, k1, x, len(v))
		require.NoError(t, err)

		got := xorBytes(r0, r1)
		if x == idx {
			assert.Equal(t, v, got)
		} else {
			assert.Equal(t, zero, got, "expected zero at x=%d", x)
		}
	}
}

func TestFullDomainMatchesPointwiseEval(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 6
	idx := uint64(40)
	v := []byte{0x01, 0x02, 0x03}

	k0, _, err := dpf.Gen(ctx, n, idx, v)
	require.NoError(t, err)

	full, err := dpf.FullDomain(ctx, k0, len(v))
	require.NoError(t, err)
	require.Len(t, full, len(v)*(1<<uint(n)))

	for x := uint64(0); x < uint64(1)<<uint(n); x++ {
		want, err := dpf.Eval(ctx, k0, x, len(v))
		require.NoError(t, err)
		got := full[x*uint64(len(v)) : (x+1)*uint64(len(v))]
		assert.Equal(t, want, got, "mismatch at x=%d", x)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 4
	v := []byte("0123456789abcdef")

	k0, _, err := dpf.Gen(ctx, n, 9, v)
	require.NoError(t, err)

	wire := k0.Serialize()
	got, err := dpf.Deserialize(wire, len(v))
	require.NoError(t, err)

	assert.Equal(t, k0, got)
}

func TestGenRejectsOutOfRangeIndex(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	_, _, err := dpf.Gen(ctx, 4, 16, []byte{0x00})
	assert.Error(t, err)
}
