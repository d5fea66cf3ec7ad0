package oracle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/shared"
)

func TestNewRequiresCommitment(t *testing.T) {
	_, err := New(WithScryptParams(config.ScryptParams{N: 16, R: 1, P: 1}))
	require.Error(t, err)
}

func TestWithCommitmentValidatesLength(t *testing.T) {
	_, err := New(WithCommitment([]byte("too-short")))
	require.Error(t, err)
}

func TestPositionAndPositionsAgree(t *testing.T) {
	r := require.New(t)

	commitment := make([]byte, shared.CommitmentSize)
	w, err := New(
		WithCommitment(commitment),
		WithScryptParams(config.ScryptParams{N: 16, R: 1, P: 1}),
	)
	r.NoError(err)

	single, err := w.Position(3)
	r.NoError(err)

	batch, err := w.Positions(2, 4)
	r.NoError(err)
	r.Equal(single, batch[shared.LabelSize:2*shared.LabelSize])
}

func TestClosedOracleRejectsCalls(t *testing.T) {
	r := require.New(t)

	w, err := New(WithCommitment(make([]byte, shared.CommitmentSize)))
	r.NoError(err)
	r.NoError(w.Close())

	_, err = w.Position(0)
	r.ErrorIs(err, ErrClosed)

	_, err = w.Positions(0, 1)
	r.ErrorIs(err, ErrClosed)
}

func TestVRFCandidateHashDeterministic(t *testing.T) {
	commitment := make([]byte, shared.CommitmentSize)
	label := make([]byte, shared.LabelSize)

	h1 := VRFCandidateHash(commitment, 10, label)
	h2 := VRFCandidateHash(commitment, 10, label)
	require.Equal(t, h1, h2)

	h3 := VRFCandidateHash(commitment, 11, label)
	require.NotEqual(t, h1, h3)
}
