// Package oracle is the CPU work oracle: given a commitment it computes
// labels at arbitrary global positions (§4.1) and the Blake3-based VRF
// candidate hash used to pick the dataset's VRF nonce.
package oracle

import (
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/labels"
	"github.com/spacemeshos/postcore/shared"
)

// ErrClosed is returned when calling a method on an already closed
// WorkOracle.
var ErrClosed = errors.New("work oracle has been closed")

type option struct {
	commitment []byte
	scrypt     config.ScryptParams
}

// OptionFunc configures a WorkOracle.
type OptionFunc func(*option) error

// WithCommitment sets the 32-byte commitment to derive labels for.
func WithCommitment(commitment []byte) OptionFunc {
	return func(o *option) error {
		if len(commitment) != shared.CommitmentSize {
			return fmt.Errorf("invalid commitment length; expected %d, given %d", shared.CommitmentSize, len(commitment))
		}
		o.commitment = commitment
		return nil
	}
}

// WithScryptParams sets the scrypt parameters used for label derivation.
func WithScryptParams(params config.ScryptParams) OptionFunc {
	return func(o *option) error {
		if err := params.Validate(); err != nil {
			return err
		}
		o.scrypt = params
		return nil
	}
}

// WorkOracle computes labels for a given commitment.
type WorkOracle struct {
	opt    option
	closed bool
}

// New constructs a WorkOracle from the given options.
func New(opts ...OptionFunc) (*WorkOracle, error) {
	o := option{scrypt: config.DefaultScryptParams()}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.commitment == nil {
		return nil, errors.New("commitment is required")
	}
	return &WorkOracle{opt: o}, nil
}

// Close releases the oracle. It exists to mirror the teacher's WorkOracle
// lifecycle, even though the pure-Go scrypt path holds no external
// resources to release.
func (w *WorkOracle) Close() error {
	w.closed = true
	return nil
}

// Position computes the label at a single global index.
func (w *WorkOracle) Position(p uint64) ([]byte, error) {
	if w.closed {
		return nil, ErrClosed
	}
	return labels.Calc(w.opt.commitment, p, w.opt.scrypt)
}

// Positions computes labels for the contiguous range [start, end].
func (w *WorkOracle) Positions(start, end uint64) ([]byte, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if start > end {
		return nil, fmt.Errorf("invalid range; expected start <= end, given %d > %d", start, end)
	}
	return labels.CalcRange(w.opt.commitment, start, end+1, w.opt.scrypt)
}

// VRFCandidateHash computes Blake3(commitment || LE64(index) || label), the
// value minimized over the VRF search window to pick the dataset's VRF
// nonce (spec §4.1).
func VRFCandidateHash(commitment []byte, index uint64, label []byte) []byte {
	h := blake3.New()
	h.Write(commitment)
	h.Write(shared.PutUint64LE(index))
	h.Write(label)
	return h.Sum(nil)
}
