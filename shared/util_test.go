package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPowerOfTwo(t *testing.T) {
	r := require.New(t)

	r.False(IsPowerOfTwo(0))
	r.False(IsPowerOfTwo(3))
	r.False(IsPowerOfTwo(6))
	r.False(IsPowerOfTwo(9))

	r.True(IsPowerOfTwo(1))
	r.True(IsPowerOfTwo(2))
	r.True(IsPowerOfTwo(64))
}

func TestUint64MulOverflow(t *testing.T) {
	r := require.New(t)

	r.False(Uint64MulOverflow(0, 1<<63))
	r.False(Uint64MulOverflow(2, 3))
	r.True(Uint64MulOverflow(1<<32, 1<<32))
}

func TestBitsForIndex(t *testing.T) {
	r := require.New(t)

	r.EqualValues(0, BitsForIndex(0))
	r.EqualValues(0, BitsForIndex(1))
	r.EqualValues(1, BitsForIndex(2))
	r.EqualValues(2, BitsForIndex(3))
	r.EqualValues(2, BitsForIndex(4))
	r.EqualValues(10, BitsForIndex(1024))
}

func TestMinMax(t *testing.T) {
	r := require.New(t)

	r.Equal(3, Min(3, 5))
	r.Equal(3, Min(5, 3))
	r.Equal(5, Max(3, 5))
	r.Equal(5, Max(5, 3))
}

func TestPutUint64LE(t *testing.T) {
	r := require.New(t)

	b := PutUint64LE(0x0102030405060708)
	r.Equal([]byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, b)
}
