package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/shared"
)

func TestSaveLoadMetadataRoundTrip(t *testing.T) {
	r := require.New(t)

	dir := filepath.Join(t.TempDir(), "nested", "datadir")
	meta := &shared.PostMetadata{
		NodeId:          shared.HexBytes{0x01, 0x02},
		CommitmentAtxId: shared.HexBytes{0x03, 0x04},
		NumUnits:        4,
		LabelsPerUnit:   1 << 12,
	}

	r.NoError(SaveMetadata(dir, meta))

	got, err := LoadMetadata(dir)
	r.NoError(err)
	r.Equal(meta.NodeId, got.NodeId)
	r.Equal(meta.NumUnits, got.NumUnits)
}

func TestLoadMetadataMissing(t *testing.T) {
	_, err := LoadMetadata(t.TempDir())
	require.ErrorIs(t, err, ErrMetadataNotFound)
}
