package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/shared"
)

func TestSaveLoadProofScaleRoundTrip(t *testing.T) {
	r := require.New(t)

	proof := &shared.Proof{
		Nonce:   3,
		Indices: []byte{0xde, 0xad, 0xbe, 0xef},
		Pow:     123456789,
	}

	path := filepath.Join(t.TempDir(), "proof.scale")
	r.NoError(SaveProofScale(path, proof))

	got, err := LoadProofScale(path)
	r.NoError(err)
	r.Equal(proof.Nonce, got.Nonce)
	r.Equal(proof.Indices, got.Indices)
	r.Equal(proof.Pow, got.Pow)
}

func TestLoadProofScaleMissingFile(t *testing.T) {
	_, err := LoadProofScale(filepath.Join(t.TempDir(), "missing.scale"))
	require.Error(t, err)
}
