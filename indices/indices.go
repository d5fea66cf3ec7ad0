// Package indices implements the packed-index codec from spec §4.4 (each
// index encoded in ceil(log2(num_labels)) bits, concatenated and
// byte-aligned) and the challenge-seeded k3 verification subsample from
// §4.6. Grounded in the teacher's bitstream-based granularity-specific IO
// and in indices/indices.go's seeded rejection-sampling draw, here
// re-based on Blake3 instead of sha256.
package indices

import (
	"bytes"
	"fmt"

	"github.com/spacemeshos/postcore/bitstream"
	"github.com/spacemeshos/postcore/shared"
)

// Pack encodes indices (each assumed < numLabels) using
// ceil(log2(numLabels)) bits apiece, concatenated and zero-padded to a
// byte boundary.
func Pack(indices []uint64, numLabels uint64) ([]byte, error) {
	bitsPerIndex := shared.BitsForIndex(numLabels)

	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf)
	for _, idx := range indices {
		if idx >= numLabels {
			return nil, fmt.Errorf("index %d out of range [0, %d)", idx, numLabels)
		}
		if err := w.WriteUint64BE(idx, int(bitsPerIndex)); err != nil {
			return nil, fmt.Errorf("writing index %d: %w", idx, err)
		}
	}
	if err := w.Flush(bitstream.Zero); err != nil {
		return nil, fmt.Errorf("flushing index stream: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack decodes count indices from data, each ceil(log2(numLabels)) bits
// wide.
func Unpack(data []byte, count int, numLabels uint64) ([]uint64, error) {
	bitsPerIndex := shared.BitsForIndex(numLabels)

	r := bitstream.NewReader(bytes.NewReader(data))
	out := make([]uint64, count)
	for i := 0; i < count; i++ {
		v, err := r.ReadUint64BE(int(bitsPerIndex))
		if err != nil {
			return nil, fmt.Errorf("reading index %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// PackedLen returns the byte length of count indices packed for numLabels.
func PackedLen(count int, numLabels uint64) int {
	bitsPerIndex := int(shared.BitsForIndex(numLabels))
	totalBits := bitsPerIndex * count
	return (totalBits + 7) / 8
}
