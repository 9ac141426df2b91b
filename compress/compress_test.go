package compress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricLiChH/V-DMPF/compress"
	"github.com/EricLiChH/V-DMPF/primitives"
)

// TestCompressDecompressRoundTrip covers n=4, B=16, t=2, xs=(2,5),
// random values; decompressed table has r2 at index 2, r5 at index 5,
// zeros elsewhere.
func TestCompressDecompressRoundTrip(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	n := 4
	xs := []uint64{2, 5}
	r2 := primitives.RandomBlock()
	r5 := primitives.RandomBlock()
	vs := [][]byte{r2[:], r5[:]}

	blob, err := compress.Compress(ctx, n, xs, vs)
	require.NoError(t, err)

	table, err := compress.Decompress(ctx, blob, 16)
	require.NoError(t, err)
	require.Len(t, table, 16*16)

	zero := make([]byte, 16)
	want := map[uint64][]byte{2: vs[0], 5: vs[1]}
	for x := uint64(0); x < 16; x++ {
		got := table[x*16 : (x+1)*16]
		if v, ok := want[x]; ok {
			assert.Equal(t, v, got)
		} else {
			assert.Equal(t, zero, got)
		}
	}
}

func TestCompressRejectsUnsortedInputs(t *testing.T) {
	ctx := primitives.DefaultPRGContext()
	xs := []uint64{5, 2}
	vs := [][]byte{
		make([]byte, 16),
		make([]byte, 16),
	}

	_, err := compress.Compress(ctx, 4, xs, vs)
	assert.Error(t, err)
}
