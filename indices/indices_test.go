package indices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	r := require.New(t)

	numLabels := uint64(1000)
	idxs := []uint64{0, 1, 42, 999, 500}

	packed, err := Pack(idxs, numLabels)
	r.NoError(err)
	r.Len(packed, PackedLen(len(idxs), numLabels))

	got, err := Unpack(packed, len(idxs), numLabels)
	r.NoError(err)
	r.Equal(idxs, got)
}

func TestPackRejectsOutOfRange(t *testing.T) {
	_, err := Pack([]uint64{5}, 5)
	require.Error(t, err)
}

func TestPackedLenMatchesBitWidth(t *testing.T) {
	r := require.New(t)

	// numLabels=256 needs 8 bits/index -> exactly 1 byte per index.
	r.Equal(4, PackedLen(4, 256))
	// numLabels=257 needs 9 bits/index -> ceil(9*4/8) = 5 bytes.
	r.Equal(5, PackedLen(4, 257))
}
