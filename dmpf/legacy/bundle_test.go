package legacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricLiChH/V-DMPF/dmpf/legacy"
	"github.com/EricLiChH/V-DMPF/primitives"
)

func TestBundleGenAndEval(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 4
	xs := []uint64{1, 2, 3, 4}
	v := []byte("aaaaaaaaaaaaaaa\x00")
	vs := [][]byte{v, v, v, v}

	k0, k1, err := legacy.Gen(ctx, n, xs, vs)
	require.NoError(t, err)

	zero := make([]byte, len(v))
	for x := uint64(0); x < 16; x++ {
		r0, err := legacy.Eval(ctx, k0, x, len(v))
		require.NoError(t, err)
		r1, err := legacy.Eval(ctx, k1, x, len(v))
		require.NoError(t, err)

		got := primitives.XORBytes(r0, r1)
		if x >= 1 && x <= 4 {
			assert.Equal(t, v, got, "expected v at x=%d", x)
		} else {
			assert.Equal(t, zero, got, "expected zero at x=%d", x)
		}
	}
}

func TestBundleFullDomainMatchesEval(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 4
	xs := []uint64{3, 9}
	vs := [][]byte{{0x01, 0x02}, {0x03, 0x04}}

	k0, _, err := legacy.Gen(ctx, n, xs, vs)
	require.NoError(t, err)

	full, err := legacy.FullDomain(ctx, k0, 2)
	require.NoError(t, err)

	for x := uint64(0); x < 16; x++ {
		want, err := legacy.Eval(ctx, k0, x, 2)
		require.NoError(t, err)
		got := full[x*2 : (x+1)*2]
		assert.Equal(t, want, got, "mismatch at x=%d", x)
	}
}

func TestBundleSerializeDeserializeRoundTrip(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	xs := []uint64{1, 2, 3}
	vs := [][]byte{{0x01}, {0x02}, {0x03}}

	k0, _, err := legacy.Gen(ctx, 4, xs, vs)
	require.NoError(t, err)

	wire := k0.Serialize()
	got, err := legacy.Deserialize(wire, 1)
	require.NoError(t, err)

	assert.Equal(t, k0, got)
}
