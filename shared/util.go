package shared

import (
	"encoding/binary"
	"math/bits"
)

// IsPowerOfTwo reports whether n is a power of two. Kept from the teacher's
// shared package; no other package in this module calls it.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// Uint64MulOverflow reports whether a*b overflows uint64.
func Uint64MulOverflow(a, b uint64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return a > (1<<64-1)/b
}

func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// BitsForIndex returns ceil(log2(n)), the number of bits needed to encode
// any value in [0, n). Encoding for n<=1 needs 0 bits (a single possible
// index needs no discriminator).
func BitsForIndex(n uint64) uint {
	if n <= 1 {
		return 0
	}
	return uint(bits.Len64(n - 1))
}

// PutUint64LE returns v as a new 8-byte little-endian slice, the
// convention used throughout the dataset/label layout.
func PutUint64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
