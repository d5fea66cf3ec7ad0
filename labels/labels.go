// Package labels implements the label PRF from spec §4.1: label i for
// commitment c is the first 16 bytes of scrypt(N, r, p; password=c,
// salt=LE64(i)). The routine is pure and supports resuming at any global
// offset, since each label is an independent scrypt evaluation.
package labels

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/scrypt"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/shared"
)

// Calc derives the single label at global index i for the given
// commitment.
func Calc(commitment []byte, index uint64, params config.ScryptParams) ([]byte, error) {
	salt := make([]byte, 8)
	binary.LittleEndian.PutUint64(salt, index)

	out, err := scrypt.Key(commitment, salt, int(params.N), int(params.R), int(params.P), shared.LabelSize)
	if err != nil {
		return nil, fmt.Errorf("scrypt label %d: %w", index, err)
	}
	return out, nil
}

// CalcRange derives labels for the contiguous range [start, end), writing
// each label's 16 bytes in order into a single contiguous buffer. The
// initializer uses it (through oracle.WorkOracle.Positions); the verifier,
// which only ever needs a handful of scattered single labels, calls Calc
// directly.
func CalcRange(commitment []byte, start, end uint64, params config.ScryptParams) ([]byte, error) {
	if end < start {
		return nil, fmt.Errorf("invalid range: start (%d) > end (%d)", start, end)
	}
	n := end - start
	out := make([]byte, 0, n*shared.LabelSize)
	for i := start; i < end; i++ {
		label, err := Calc(commitment, i, params)
		if err != nil {
			return nil, err
		}
		out = append(out, label...)
	}
	return out, nil
}
