package indices

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/spacemeshos/postcore/shared"
)

// DrawSample returns a deterministic k3-subset of the position range
// [0, k2), seeded by challenge, for the verifier's random re-check (spec
// §4.6). Uses challenge-seeded rejection sampling over Blake3(challenge ||
// counter), following the teacher's DrawProvenLabelIndices shape.
func DrawSample(challenge shared.Challenge, k2, k3 int) []int {
	if k3 >= k2 {
		out := make([]int, k2)
		for i := range out {
			out[i] = i
		}
		return out
	}

	bitsRequired := shared.BitsForIndex(uint64(k2))
	mask := uint64(1)<<bitsRequired - 1

	seen := make(map[uint64]bool, k3)
	out := make([]int, 0, k3)
	for counter := uint32(0); len(out) < k3; counter++ {
		h := blake3.New()
		h.Write(challenge[:])
		var cbuf [4]byte
		binary.LittleEndian.PutUint32(cbuf[:], counter)
		h.Write(cbuf[:])
		sum := h.Sum(nil)

		masked := binary.LittleEndian.Uint64(sum[:8]) & mask
		if masked >= uint64(k2) || seen[masked] {
			continue
		}
		seen[masked] = true
		out = append(out, int(masked))
	}
	return out
}
